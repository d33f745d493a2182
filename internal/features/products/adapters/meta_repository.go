package adapters

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

func (r *MetaRepository) Get(ctx context.Context, productID, key string) (string, bool, error) {
	return r.store.Get(ctx, metastore.EntityProduct, productID, key)
}

func (r *MetaRepository) Set(ctx context.Context, productID, key, value string) error {
	return r.store.Set(ctx, metastore.EntityProduct, productID, key, value)
}

func (r *MetaRepository) Delete(ctx context.Context, productID, key string) error {
	return r.store.Delete(ctx, metastore.EntityProduct, productID, key)
}

func (r *MetaRepository) List(ctx context.Context, key string) ([]string, error) {
	return r.store.ListEntities(ctx, metastore.EntityProduct, key)
}
