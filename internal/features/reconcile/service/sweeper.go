package service

import (
	"context"
	"time"

	"courier-bridge/internal/core/logger"
	orders "courier-bridge/internal/features/orders/domain"
	"courier-bridge/internal/features/reconcile/ports"
	shipments "courier-bridge/internal/features/shipments/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SweepResult counts the outcome of one reconciliation sweep.
type SweepResult struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	// Scanned is the number of processing orders visited.
	Scanned int `json:"scanned"`
	// Concluded is the number of orders whose shipment reached a final status.
	Concluded int `json:"concluded"`
	// Pending is the number of orders whose shipment is still under way.
	Pending int `json:"pending"`
	// Skipped is the number of orders without a voucher.
	Skipped int `json:"skipped"`
	// Failed is the number of orders that could not be reconciled.
	Failed int `json:"failed"`
}

// Sweeper reconciles every processing order with its courier shipment.
type Sweeper struct {
	orders    ports.OrderLister
	shipments ports.ShipmentSyncer
	logger    *zap.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(orderLister ports.OrderLister, syncer ports.ShipmentSyncer) *Sweeper {
	return &Sweeper{
		orders:    orderLister,
		shipments: syncer,
		logger:    logger.Named("reconcile"),
	}
}

// Sweep visits the processing orders one after the other. A failure on one order is
// logged and counted; only listing the orders or a cancelled ctx stops the sweep.
func (s *Sweeper) Sweep(ctx context.Context) (SweepResult, error) {
	result := SweepResult{RunID: uuid.NewString(), StartedAt: time.Now()}
	log := s.logger.With(zap.String("run_id", result.RunID))

	ids, err := s.orders.ListOrderIDs(ctx, orders.OrderStatusProcessing)
	if err != nil {
		log.Error("Failed to list processing orders", zap.Error(err))
		return result, err
	}

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			log.Warn("Sweep interrupted", zap.Int("scanned", result.Scanned))
			result.Duration = time.Since(result.StartedAt)
			return result, err
		}
		result.Scanned++
		s.reconcile(ctx, log.With(zap.String("order_id", id)), id, &result)
	}

	result.Duration = time.Since(result.StartedAt)
	log.Info("Sweep finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("concluded", result.Concluded),
		zap.Int("pending", result.Pending),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *Sweeper) reconcile(ctx context.Context, log *zap.Logger, orderID string, result *SweepResult) {
	voucher, err := s.orders.GetOrderMeta(ctx, orderID, orders.MetaVoucher)
	if err != nil {
		log.Error("Failed to read voucher", zap.Error(err))
		result.Failed++
		return
	}
	if voucher == "" {
		result.Skipped++
		return
	}

	outcome, err := s.shipments.Sync(ctx, orderID)
	if err != nil {
		log.Error("Failed to reconcile order", zap.String("voucher", voucher), zap.Error(err))
		result.Failed++
		return
	}

	if outcome.Conclusion == shipments.ConclusionNone {
		result.Pending++
		return
	}
	result.Concluded++
	log.Debug("Order concluded", zap.String("voucher", voucher), zap.String("conclusion", string(outcome.Conclusion)))
}
