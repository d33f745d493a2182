package service

import (
	"context"
	"errors"
	"fmt"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/metastore"
	"courier-bridge/internal/features/orders/domain"
	"courier-bridge/internal/features/orders/ports"
)

// OrderService is the order store consumed by the shipment lifecycle: store
// orders from the OrderProvider plus order metadata from the MetaRepository.
type OrderService struct {
	// provider is the interface for fetching order data from the store.
	provider ports.OrderProvider
	// meta holds the order-scoped courier metadata.
	meta ports.MetaRepository
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(provider ports.OrderProvider, meta ports.MetaRepository) *OrderService {
	return &OrderService{
		provider: provider,
		meta:     meta,
	}
}

// GetOrder retrieves an order by id.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.provider.GetOrder(ctx, orderID)
}

// UpdateOrderStatus sets the order status, attaching note when non-empty.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) error {
	return s.provider.UpdateOrderStatus(ctx, orderID, status, note)
}

// AddOrderNote appends a private note to the order.
func (s *OrderService) AddOrderNote(ctx context.Context, orderID, note string) error {
	return s.provider.AddOrderNote(ctx, orderID, note)
}

// ListOrderIDs returns the ids of every order in status.
func (s *OrderService) ListOrderIDs(ctx context.Context, status domain.OrderStatus) ([]string, error) {
	return s.provider.ListOrderIDs(ctx, status)
}

// FindOrdersByVoucher returns the ids of the live orders holding voucher. Holders
// deleted or trashed in the store release the voucher: their stored value is removed
// so a later write is not rejected by the unique index.
func (s *OrderService) FindOrdersByVoucher(ctx context.Context, voucher string) ([]string, error) {
	ids, err := s.meta.FindOrders(ctx, domain.MetaVoucher, voucher)
	if err != nil {
		return nil, err
	}

	holders := make([]string, 0, len(ids))
	for _, id := range ids {
		order, err := s.provider.GetOrder(ctx, id)
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
		case err != nil:
			return nil, fmt.Errorf("failed to check voucher holder #%s: %w", id, err)
		case order.Status != domain.OrderStatusTrash:
			holders = append(holders, id)
			continue
		}

		if err := s.DeleteOrderMeta(ctx, id, domain.MetaVoucher); err != nil {
			return nil, err
		}
	}
	return holders, nil
}

// GetOrderMeta returns the value stored under key, or "" when absent.
func (s *OrderService) GetOrderMeta(ctx context.Context, orderID, key string) (string, error) {
	value, _, err := s.meta.Get(ctx, orderID, key)
	return value, err
}

// SetOrderMeta stores value under key. A voucher already held by another order is
// reported as *apperrors.ConflictError, any other failure as *apperrors.PersistenceError.
func (s *OrderService) SetOrderMeta(ctx context.Context, orderID, key, value string) error {
	err := s.meta.Set(ctx, orderID, key, value)
	if err == nil {
		return nil
	}

	if key == domain.MetaVoucher && errors.Is(err, metastore.ErrDuplicate) {
		holder := "?"
		if ids, findErr := s.meta.FindOrders(ctx, key, value); findErr == nil && len(ids) > 0 {
			holder = ids[0]
		}
		return &apperrors.ConflictError{Voucher: value, OrderID: holder}
	}
	return &apperrors.PersistenceError{Op: fmt.Sprintf("set order %s meta %s", orderID, key), Err: err}
}

// DeleteOrderMeta removes the value stored under key.
func (s *OrderService) DeleteOrderMeta(ctx context.Context, orderID, key string) error {
	if err := s.meta.Delete(ctx, orderID, key); err != nil {
		return &apperrors.PersistenceError{Op: fmt.Sprintf("delete order %s meta %s", orderID, key), Err: err}
	}
	return nil
}
