package ports

import (
	"context"

	"courier-bridge/internal/core/courier"
	orders "courier-bridge/internal/features/orders/domain"
	products "courier-bridge/internal/features/products/domain"
	statuses "courier-bridge/internal/features/statuses/domain"
)

// OrderStore reads and updates orders and their courier metadata.
type OrderStore interface {
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status orders.OrderStatus, note string) error
	AddOrderNote(ctx context.Context, orderID, note string) error
	// FindOrdersByVoucher returns the ids of the orders holding voucher.
	FindOrdersByVoucher(ctx context.Context, voucher string) ([]string, error)
	GetOrderMeta(ctx context.Context, orderID, key string) (string, error)
	SetOrderMeta(ctx context.Context, orderID, key, value string) error
	DeleteOrderMeta(ctx context.Context, orderID, key string) error
}

// Catalog resolves order items to products and their sync state.
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*products.Product, error)
	State(ctx context.Context, id string) (products.SyncState, error)
}

// Courier is the remote shipment service.
type Courier interface {
	CreateShipment(ctx context.Context, shipment courier.ShipmentRequest) (string, error)
	ModifyShipment(ctx context.Context, voucher, message string) (string, error)
	CancelShipment(ctx context.Context, voucher string) (courier.ActionResult, error)
	StatusHistory(ctx context.Context, voucher string) ([]courier.HistoryEntry, error)
}

// Definitions classifies status codes.
type Definitions interface {
	Get(ctx context.Context, code string, force bool) (statuses.Definition, error)
}
