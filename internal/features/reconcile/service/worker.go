package service

import (
	"context"
	"time"

	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/features/reconcile/ports"

	"go.uber.org/zap"
)

// DefaultSweepInterval replaces a non-positive sweep interval.
const DefaultSweepInterval = 5 * time.Minute

// Worker runs the reconciliation sweep, and optionally the full stock sync, on fixed
// intervals. Jobs run one at a time on the worker goroutine.
type Worker struct {
	sweeper       *Sweeper
	stock         ports.StockSyncer
	sweepInterval time.Duration
	stockInterval time.Duration
	logger        *zap.Logger
}

// NewWorker creates a Worker. A nil stock syncer or a non-positive stockInterval
// disables the stock job; a non-positive sweepInterval falls back to
// DefaultSweepInterval.
func NewWorker(sweeper *Sweeper, stock ports.StockSyncer, sweepInterval, stockInterval time.Duration) *Worker {
	w := &Worker{
		sweeper:       sweeper,
		stock:         stock,
		sweepInterval: sweepInterval,
		stockInterval: stockInterval,
		logger:        logger.Named("reconcile"),
	}
	if sweepInterval <= 0 {
		w.logger.Warn("Invalid sweep interval, using default",
			zap.Duration("sweep_interval", sweepInterval),
			zap.Duration("default", DefaultSweepInterval),
		)
		w.sweepInterval = DefaultSweepInterval
	}
	return w
}

// Start blocks until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) {
	sweepTicker := time.NewTicker(w.sweepInterval)
	defer sweepTicker.Stop()

	var stockTick <-chan time.Time
	if w.stock != nil && w.stockInterval > 0 {
		stockTicker := time.NewTicker(w.stockInterval)
		defer stockTicker.Stop()
		stockTick = stockTicker.C
	}

	w.logger.Info("Reconciliation worker started",
		zap.Duration("sweep_interval", w.sweepInterval),
		zap.Duration("stock_interval", w.stockInterval),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Reconciliation worker stopped")
			return
		case <-sweepTicker.C:
			// Errors are logged by the sweeper.
			_, _ = w.sweeper.Sweep(ctx)
		case <-stockTick:
			if _, err := w.stock.SynchronizeAll(ctx); err != nil {
				w.logger.Error("Scheduled stock sync failed", zap.Error(err))
			}
		}
	}
}
