package adapter

import (
	"context"

	"courier-bridge/internal/core/metastore"
)

// MetaRepository implements ports.MetaRepository on the shared metadata store.
type MetaRepository struct {
	store *metastore.Store
}

// NewMetaRepository creates a MetaRepository.
func NewMetaRepository(store *metastore.Store) *MetaRepository {
	return &MetaRepository{store: store}
}

func (r *MetaRepository) Get(ctx context.Context, orderID, key string) (string, bool, error) {
	return r.store.Get(ctx, metastore.EntityOrder, orderID, key)
}

func (r *MetaRepository) Set(ctx context.Context, orderID, key, value string) error {
	return r.store.Set(ctx, metastore.EntityOrder, orderID, key, value)
}

func (r *MetaRepository) Delete(ctx context.Context, orderID, key string) error {
	return r.store.Delete(ctx, metastore.EntityOrder, orderID, key)
}

func (r *MetaRepository) FindOrders(ctx context.Context, key, value string) ([]string, error) {
	return r.store.FindEntities(ctx, metastore.EntityOrder, key, value)
}
