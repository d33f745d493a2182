package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/metastore"
	"courier-bridge/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderProvider is a mock implementation of ports.OrderProvider
type MockOrderProvider struct {
	mock.Mock
}

func (m *MockOrderProvider) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderProvider) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, note string) error {
	return m.Called(ctx, orderID, status, note).Error(0)
}

func (m *MockOrderProvider) AddOrderNote(ctx context.Context, orderID, note string) error {
	return m.Called(ctx, orderID, note).Error(0)
}

func (m *MockOrderProvider) ListOrderIDs(ctx context.Context, status domain.OrderStatus) ([]string, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]string), args.Error(1)
}

// MockMetaRepository is a mock implementation of ports.MetaRepository
type MockMetaRepository struct {
	mock.Mock
}

func (m *MockMetaRepository) Get(ctx context.Context, orderID, key string) (string, bool, error) {
	args := m.Called(ctx, orderID, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockMetaRepository) Set(ctx context.Context, orderID, key, value string) error {
	return m.Called(ctx, orderID, key, value).Error(0)
}

func (m *MockMetaRepository) Delete(ctx context.Context, orderID, key string) error {
	return m.Called(ctx, orderID, key).Error(0)
}

func (m *MockMetaRepository) FindOrders(ctx context.Context, key, value string) ([]string, error) {
	args := m.Called(ctx, key, value)
	return args.Get(0).([]string), args.Error(1)
}

func TestOrderService_SetOrderMeta(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		meta := new(MockMetaRepository)
		svc := NewOrderService(new(MockOrderProvider), meta)

		meta.On("Set", ctx, "1", domain.MetaVoucher, "V1").Return(nil).Once()

		assert.NoError(t, svc.SetOrderMeta(ctx, "1", domain.MetaVoucher, "V1"))
		meta.AssertExpectations(t)
	})

	t.Run("VoucherRace", func(t *testing.T) {
		meta := new(MockMetaRepository)
		svc := NewOrderService(new(MockOrderProvider), meta)

		meta.On("Set", ctx, "2", domain.MetaVoucher, "V1").Return(fmt.Errorf("%w: x", metastore.ErrDuplicate)).Once()
		meta.On("FindOrders", ctx, domain.MetaVoucher, "V1").Return([]string{"1"}, nil).Once()

		err := svc.SetOrderMeta(ctx, "2", domain.MetaVoucher, "V1")

		var conflict *apperrors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "1", conflict.OrderID)
		meta.AssertExpectations(t)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		meta := new(MockMetaRepository)
		svc := NewOrderService(new(MockOrderProvider), meta)

		cause := errors.New("connection reset")
		meta.On("Set", ctx, "1", domain.MetaFailureNote, "note").Return(cause).Once()

		err := svc.SetOrderMeta(ctx, "1", domain.MetaFailureNote, "note")

		var persistErr *apperrors.PersistenceError
		require.ErrorAs(t, err, &persistErr)
		assert.ErrorIs(t, err, cause)
	})
}

func TestOrderService_DeleteOrderMeta(t *testing.T) {
	ctx := context.Background()
	meta := new(MockMetaRepository)
	svc := NewOrderService(new(MockOrderProvider), meta)

	meta.On("Delete", ctx, "1", domain.MetaVoucher).Return(errors.New("db down")).Once()

	var persistErr *apperrors.PersistenceError
	assert.ErrorAs(t, svc.DeleteOrderMeta(ctx, "1", domain.MetaVoucher), &persistErr)
}

func TestOrderService_GetOrderMeta(t *testing.T) {
	ctx := context.Background()
	meta := new(MockMetaRepository)
	svc := NewOrderService(new(MockOrderProvider), meta)

	meta.On("Get", ctx, "1", domain.MetaVoucher).Return("", false, nil).Once()

	value, err := svc.GetOrderMeta(ctx, "1", domain.MetaVoucher)
	require.NoError(t, err)
	assert.Empty(t, value)
}

func TestOrderService_Delegates(t *testing.T) {
	ctx := context.Background()
	provider := new(MockOrderProvider)
	meta := new(MockMetaRepository)
	svc := NewOrderService(provider, meta)

	provider.On("GetOrder", ctx, "7").Return(&domain.Order{ID: "7", Status: domain.OrderStatusProcessing}, nil).Twice()
	provider.On("UpdateOrderStatus", ctx, "7", domain.OrderStatusCompleted, "done").Return(nil).Once()
	provider.On("AddOrderNote", ctx, "7", "hello").Return(nil).Once()
	provider.On("ListOrderIDs", ctx, domain.OrderStatusProcessing).Return([]string{"7"}, nil).Once()
	meta.On("FindOrders", ctx, domain.MetaVoucher, "V7").Return([]string{"7"}, nil).Once()

	order, err := svc.GetOrder(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "7", order.ID)
	require.NoError(t, svc.UpdateOrderStatus(ctx, "7", domain.OrderStatusCompleted, "done"))
	require.NoError(t, svc.AddOrderNote(ctx, "7", "hello"))

	ids, err := svc.ListOrderIDs(ctx, domain.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, ids)

	holders, err := svc.FindOrdersByVoucher(ctx, "V7")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, holders)

	provider.AssertExpectations(t)
	meta.AssertExpectations(t)
}

func TestOrderService_FindOrdersByVoucher(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletedHolderReleasesVoucher", func(t *testing.T) {
		provider := new(MockOrderProvider)
		meta := new(MockMetaRepository)
		svc := NewOrderService(provider, meta)

		meta.On("FindOrders", ctx, domain.MetaVoucher, "V1").Return([]string{"1"}, nil).Once()
		provider.On("GetOrder", ctx, "1").Return(nil, domain.ErrOrderNotFound).Once()
		meta.On("Delete", ctx, "1", domain.MetaVoucher).Return(nil).Once()

		holders, err := svc.FindOrdersByVoucher(ctx, "V1")
		require.NoError(t, err)
		assert.Empty(t, holders)
		meta.AssertExpectations(t)
	})

	t.Run("TrashedHolderReleasesVoucher", func(t *testing.T) {
		provider := new(MockOrderProvider)
		meta := new(MockMetaRepository)
		svc := NewOrderService(provider, meta)

		meta.On("FindOrders", ctx, domain.MetaVoucher, "V1").Return([]string{"1", "3"}, nil).Once()
		provider.On("GetOrder", ctx, "1").Return(&domain.Order{ID: "1", Status: domain.OrderStatusTrash}, nil).Once()
		provider.On("GetOrder", ctx, "3").Return(&domain.Order{ID: "3", Status: domain.OrderStatusCompleted}, nil).Once()
		meta.On("Delete", ctx, "1", domain.MetaVoucher).Return(nil).Once()

		holders, err := svc.FindOrdersByVoucher(ctx, "V1")
		require.NoError(t, err)
		assert.Equal(t, []string{"3"}, holders)
		meta.AssertExpectations(t)
	})

	t.Run("ReassignAfterHolderDeleted", func(t *testing.T) {
		provider := new(MockOrderProvider)
		meta := new(MockMetaRepository)
		svc := NewOrderService(provider, meta)

		meta.On("FindOrders", ctx, domain.MetaVoucher, "V1").Return([]string{"1"}, nil).Once()
		provider.On("GetOrder", ctx, "1").Return(nil, domain.ErrOrderNotFound).Once()
		meta.On("Delete", ctx, "1", domain.MetaVoucher).Return(nil).Once()
		meta.On("Set", ctx, "2", domain.MetaVoucher, "V1").Return(nil).Once()

		holders, err := svc.FindOrdersByVoucher(ctx, "V1")
		require.NoError(t, err)
		require.Empty(t, holders)
		require.NoError(t, svc.SetOrderMeta(ctx, "2", domain.MetaVoucher, "V1"))
		meta.AssertExpectations(t)
	})

	t.Run("StoreUnavailable", func(t *testing.T) {
		provider := new(MockOrderProvider)
		meta := new(MockMetaRepository)
		svc := NewOrderService(provider, meta)

		meta.On("FindOrders", ctx, domain.MetaVoucher, "V1").Return([]string{"1"}, nil).Once()
		provider.On("GetOrder", ctx, "1").Return(nil, errors.New("timeout")).Once()

		_, err := svc.FindOrdersByVoucher(ctx, "V1")
		assert.Error(t, err)
		meta.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}
