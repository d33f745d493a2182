package metastore

import (
	"context"
	"os"
	"testing"

	"courier-bridge/internal/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testVoucherKey = "_courier_voucher"

// newTestStore connects to TEST_DATABASE_DSN and starts from an empty table.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := database.Open(dsn)
	require.NoError(t, err)

	store := New(db)
	ctx := context.Background()
	require.NoError(t, db.Migrator().DropTable(&Entry{}))
	require.NoError(t, store.Migrate(ctx, UniqueValue{EntityType: EntityOrder, Key: testVoucherKey}))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store
}

func TestStore_SetGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, EntityProduct, "7", "_courier_sync_status")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, EntityProduct, "7", "_courier_sync_status", "pending"))
	require.NoError(t, store.Set(ctx, EntityProduct, "7", "_courier_sync_status", "synced"))

	value, ok, err := store.Get(ctx, EntityProduct, "7", "_courier_sync_status")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "synced", value)

	require.NoError(t, store.Delete(ctx, EntityProduct, "7", "_courier_sync_status"))
	require.NoError(t, store.Delete(ctx, EntityProduct, "7", "_courier_sync_status"))

	_, ok, err = store.Get(ctx, EntityProduct, "7", "_courier_sync_status")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_UniqueVoucher(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, EntityOrder, "1", testVoucherKey, "V1"))
	// Rewriting the same value on the same order is an update, not a violation.
	require.NoError(t, store.Set(ctx, EntityOrder, "1", testVoucherKey, "V1"))

	err := store.Set(ctx, EntityOrder, "2", testVoucherKey, "V1")
	assert.ErrorIs(t, err, ErrDuplicate)

	ids, err := store.FindEntities(ctx, EntityOrder, testVoucherKey, "V1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)

	// Products are not covered by the order voucher index.
	require.NoError(t, store.Set(ctx, EntityProduct, "1", testVoucherKey, "V1"))
	require.NoError(t, store.Set(ctx, EntityProduct, "2", testVoucherKey, "V1"))
}

func TestStore_ListEntities(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, EntityProduct, "10", "_courier_sync_enabled", "yes"))
	require.NoError(t, store.Set(ctx, EntityProduct, "11", "_courier_sync_enabled", "yes"))
	require.NoError(t, store.Set(ctx, EntityOrder, "10", "_courier_sync_enabled", "yes"))

	ids, err := store.ListEntities(ctx, EntityProduct, "_courier_sync_enabled")
	require.NoError(t, err)
	assert.Equal(t, []string{"10", "11"}, ids)
}

func TestIndexName(t *testing.T) {
	assert.Equal(t, "uniq_order_courier_voucher", indexName(UniqueValue{EntityType: EntityOrder, Key: "_courier_voucher"}))
}
