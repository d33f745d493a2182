package ports

import (
	"context"

	"courier-bridge/internal/features/orders/domain"
)

// OrderProvider reads and updates orders in the store.
// This is a Secondary Port (Driven Port).
type OrderProvider interface {
	// GetOrder retrieves an order by its store id.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	// UpdateOrderStatus sets the order status, attaching note when non-empty.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) error
	// AddOrderNote appends a private note to the order.
	AddOrderNote(ctx context.Context, orderID, note string) error
	// ListOrderIDs returns the ids of every order in status.
	ListOrderIDs(ctx context.Context, status domain.OrderStatus) ([]string, error)
}

// MetaRepository stores order-scoped metadata.
type MetaRepository interface {
	Get(ctx context.Context, orderID, key string) (string, bool, error)
	Set(ctx context.Context, orderID, key, value string) error
	Delete(ctx context.Context, orderID, key string) error
	// FindOrders returns the ids of the orders holding value under key.
	FindOrders(ctx context.Context, key, value string) ([]string, error)
}
