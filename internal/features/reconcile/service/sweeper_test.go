package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"courier-bridge/internal/core/apperrors"
	orders "courier-bridge/internal/features/orders/domain"
	products "courier-bridge/internal/features/products/service"
	shipments "courier-bridge/internal/features/shipments/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderLister is a mock implementation of ports.OrderLister
type MockOrderLister struct {
	mock.Mock
}

func (m *MockOrderLister) ListOrderIDs(ctx context.Context, status orders.OrderStatus) ([]string, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOrderLister) GetOrderMeta(ctx context.Context, orderID, key string) (string, error) {
	args := m.Called(ctx, orderID, key)
	return args.String(0), args.Error(1)
}

// MockShipmentSyncer is a mock implementation of ports.ShipmentSyncer
type MockShipmentSyncer struct {
	mock.Mock
}

func (m *MockShipmentSyncer) Sync(ctx context.Context, orderID string) (*shipments.Outcome, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipments.Outcome), args.Error(1)
}

func TestSweeper_Sweep(t *testing.T) {
	lister := new(MockOrderLister)
	syncer := new(MockShipmentSyncer)

	lister.On("ListOrderIDs", mock.Anything, orders.OrderStatusProcessing).Return([]string{"1", "2", "3", "4", "5"}, nil).Once()
	lister.On("GetOrderMeta", mock.Anything, "1", orders.MetaVoucher).Return("V1", nil)
	lister.On("GetOrderMeta", mock.Anything, "2", orders.MetaVoucher).Return("", nil)
	lister.On("GetOrderMeta", mock.Anything, "3", orders.MetaVoucher).Return("V3", nil)
	lister.On("GetOrderMeta", mock.Anything, "4", orders.MetaVoucher).Return("V4", nil)
	lister.On("GetOrderMeta", mock.Anything, "5", orders.MetaVoucher).Return("", errors.New("db down"))

	syncer.On("Sync", mock.Anything, "1").Return(&shipments.Outcome{Conclusion: shipments.ConclusionCompleted}, nil)
	syncer.On("Sync", mock.Anything, "3").Return(nil, &apperrors.ConnectionError{Operation: "GetVoucherHistory", Err: errors.New("timeout")})
	syncer.On("Sync", mock.Anything, "4").Return(&shipments.Outcome{Conclusion: shipments.ConclusionNone}, nil)

	result, err := NewSweeper(lister, syncer).Sweep(context.Background())
	require.NoError(t, err)

	_, parseErr := uuid.Parse(result.RunID)
	assert.NoError(t, parseErr)
	assert.Equal(t, 5, result.Scanned)
	assert.Equal(t, 1, result.Concluded)
	assert.Equal(t, 1, result.Pending)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 2, result.Failed)
	syncer.AssertNotCalled(t, "Sync", mock.Anything, "2")
	syncer.AssertExpectations(t)
}

func TestSweeper_ListFailure(t *testing.T) {
	lister := new(MockOrderLister)
	lister.On("ListOrderIDs", mock.Anything, orders.OrderStatusProcessing).Return(nil, errors.New("store down")).Once()

	_, err := NewSweeper(lister, new(MockShipmentSyncer)).Sweep(context.Background())
	assert.Error(t, err)
}

func TestSweeper_Cancelled(t *testing.T) {
	lister := new(MockOrderLister)
	lister.On("ListOrderIDs", mock.Anything, orders.OrderStatusProcessing).Return([]string{"1"}, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := NewSweeper(lister, new(MockShipmentSyncer)).Sweep(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Scanned)
}

// countingStock counts scheduled stock syncs.
type countingStock struct {
	calls atomic.Int32
}

func (c *countingStock) SynchronizeAll(ctx context.Context) (products.SyncReport, error) {
	c.calls.Add(1)
	return products.SyncReport{}, nil
}

func TestWorker_RunsJobsUntilCancelled(t *testing.T) {
	lister := new(MockOrderLister)
	var sweeps atomic.Int32
	lister.On("ListOrderIDs", mock.Anything, orders.OrderStatusProcessing).
		Run(func(mock.Arguments) { sweeps.Add(1) }).
		Return([]string{}, nil)

	stock := &countingStock{}
	worker := NewWorker(NewSweeper(lister, new(MockShipmentSyncer)), stock, 10*time.Millisecond, 15*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return sweeps.Load() >= 2 && stock.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorker_StockJobDisabled(t *testing.T) {
	lister := new(MockOrderLister)
	lister.On("ListOrderIDs", mock.Anything, orders.OrderStatusProcessing).Return([]string{}, nil)

	stock := &countingStock{}
	worker := NewWorker(NewSweeper(lister, new(MockShipmentSyncer)), stock, 5*time.Millisecond, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	worker.Start(ctx)

	assert.Equal(t, int32(0), stock.calls.Load())
}

func TestWorker_NonPositiveSweepInterval(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Second} {
		worker := NewWorker(NewSweeper(new(MockOrderLister), new(MockShipmentSyncer)), nil, interval, 0)
		assert.Equal(t, DefaultSweepInterval, worker.sweepInterval)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NotPanics(t, func() { worker.Start(ctx) })
	}
}
