package ports

import (
	"context"

	"courier-bridge/internal/core/courier"
	"courier-bridge/internal/features/products/domain"
)

// ProductStore reads products and writes their stock.
// This is a Secondary Port (Driven Port).
type ProductStore interface {
	// GetProduct returns a product or variation by id.
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	// FindBySKU returns every product and variation carrying sku.
	FindBySKU(ctx context.Context, sku string) ([]*domain.Product, error)
	// SetStock sets the managed stock quantity of the product.
	SetStock(ctx context.Context, product *domain.Product, quantity int) error
}

// MetaRepository stores product-scoped metadata.
type MetaRepository interface {
	Get(ctx context.Context, productID, key string) (string, bool, error)
	Set(ctx context.Context, productID, key, value string) error
	Delete(ctx context.Context, productID, key string) error
	// List returns the ids of every product with a value under key.
	List(ctx context.Context, key string) ([]string, error)
}

// StockSource reports the remote warehouse stock.
type StockSource interface {
	QueryStock(ctx context.Context) ([]courier.StockLevel, error)
}
