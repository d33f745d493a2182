package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/features/products/domain"
	"courier-bridge/internal/features/products/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSyncService is a mock implementation of SyncService
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Synchronize(ctx context.Context, skus []string) (service.SyncReport, error) {
	args := m.Called(ctx, skus)
	return args.Get(0).(service.SyncReport), args.Error(1)
}

func (m *MockSyncService) SynchronizeAll(ctx context.Context) (service.SyncReport, error) {
	args := m.Called(ctx)
	return args.Get(0).(service.SyncReport), args.Error(1)
}

func (m *MockSyncService) SynchronizeProduct(ctx context.Context, id string) (service.SyncReport, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(service.SyncReport), args.Error(1)
}

func (m *MockSyncService) Enable(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSyncService) Disable(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSyncService) SKUChanged(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSyncService) State(ctx context.Context, id string) (domain.SyncState, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.SyncState), args.Error(1)
}

func (m *MockSyncService) CompositeStatus(ctx context.Context, id string) (domain.CompositeStatus, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.CompositeStatus), args.Error(1)
}

func setupApp(svc *MockSyncService) *fiber.App {
	app := fiber.New()
	NewProductHandler(svc).Register(app.Group("/api"))
	return app
}

func TestProductHandler_Synchronize(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockSyncService)
		app := setupApp(svc)
		svc.On("Synchronize", mock.Anything, []string{"ABC", "DEF"}).Return(service.SyncReport{Synced: 1, NotSynced: 1}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/products/sync", strings.NewReader(`{"skus":["ABC","DEF"]}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var report service.SyncReport
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
		assert.Equal(t, 1, report.NotSynced)
		svc.AssertExpectations(t)
	})

	t.Run("MissingSKUs", func(t *testing.T) {
		svc := new(MockSyncService)
		app := setupApp(svc)

		req := httptest.NewRequest(http.MethodPost, "/api/products/sync", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		svc.AssertNotCalled(t, "Synchronize")
	})

	t.Run("CourierDown", func(t *testing.T) {
		svc := new(MockSyncService)
		app := setupApp(svc)
		svc.On("SynchronizeAll", mock.Anything).Return(service.SyncReport{}, &apperrors.ConnectionError{Operation: "GetStock", Err: errors.New("timeout")}).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/products/sync-all", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestProductHandler_SyncFlag(t *testing.T) {
	svc := new(MockSyncService)
	app := setupApp(svc)

	svc.On("Enable", mock.Anything, "7").Return(nil).Once()
	svc.On("State", mock.Anything, "7").Return(domain.SyncState{Enabled: true, Status: domain.SyncStatusPending}, nil).Once()
	svc.On("CompositeStatus", mock.Anything, "7").Return(domain.CompositePending, nil).Once()
	svc.On("Disable", mock.Anything, "7").Return(nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodPut, "/api/products/7/sync-flag", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SyncFlagResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Enabled)
	assert.Equal(t, domain.CompositePending, body.Composite)

	resp, err = app.Test(httptest.NewRequest(http.MethodDelete, "/api/products/7/sync-flag", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	svc.AssertExpectations(t)
}

func TestProductHandler_SKUChanged(t *testing.T) {
	svc := new(MockSyncService)
	app := setupApp(svc)

	svc.On("SKUChanged", mock.Anything, "7").Return(nil).Once()
	svc.On("State", mock.Anything, "7").Return(domain.SyncState{Enabled: true, Status: domain.SyncStatusPending}, nil).Once()
	svc.On("CompositeStatus", mock.Anything, "7").Return(domain.CompositePending, nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/products/7/sku-changed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body SyncFlagResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, domain.SyncStatusPending, body.Status)
	svc.AssertExpectations(t)
}
