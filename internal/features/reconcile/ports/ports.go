package ports

import (
	"context"

	orders "courier-bridge/internal/features/orders/domain"
	products "courier-bridge/internal/features/products/service"
	shipments "courier-bridge/internal/features/shipments/domain"
)

// OrderLister finds the orders a sweep visits.
type OrderLister interface {
	ListOrderIDs(ctx context.Context, status orders.OrderStatus) ([]string, error)
	GetOrderMeta(ctx context.Context, orderID, key string) (string, error)
}

// ShipmentSyncer pulls an order's shipment status and concludes the order.
type ShipmentSyncer interface {
	Sync(ctx context.Context, orderID string) (*shipments.Outcome, error)
}

// StockSyncer synchronizes the stock of every sync-enabled product.
type StockSyncer interface {
	SynchronizeAll(ctx context.Context) (products.SyncReport, error)
}
