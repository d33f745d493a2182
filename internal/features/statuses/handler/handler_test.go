package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/features/statuses/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockDefinitionService is a mock implementation of DefinitionService
type MockDefinitionService struct {
	mock.Mock
}

func (m *MockDefinitionService) All(ctx context.Context, force bool) (*domain.Set, error) {
	args := m.Called(ctx, force)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Set), args.Error(1)
}

func (m *MockDefinitionService) Get(ctx context.Context, code string, force bool) (domain.Definition, error) {
	args := m.Called(ctx, code, force)
	return args.Get(0).(domain.Definition), args.Error(1)
}

func setupApp(service *MockDefinitionService) *fiber.App {
	app := fiber.New()
	NewStatusHandler(service).Register(app.Group("/api"))
	return app
}

func TestStatusHandler_ListStatuses(t *testing.T) {
	mockService := new(MockDefinitionService)
	app := setupApp(mockService)

	set := domain.NewSet(map[string]domain.Definition{"AKY": {Level: domain.LevelFinal, Description: "Ακυρωμένη"}}, time.Now())
	mockService.On("All", mock.Anything, true).Return(set, nil).Once()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/statuses?refresh=true", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body StatusListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Statuses, 2)
	assert.Equal(t, "AKY", body.Statuses[0].Code)
	assert.Equal(t, domain.CodeNone, body.Statuses[1].Code)
	mockService.AssertExpectations(t)
}

func TestStatusHandler_GetStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := new(MockDefinitionService)
		app := setupApp(mockService)

		mockService.On("Get", mock.Anything, "ΠΡΔ", false).Return(domain.Definition{Level: domain.LevelFinal, Description: "Παραδόθηκε"}, nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/statuses/"+url.PathEscape("ΠΡΔ"), nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockDefinitionService)
		app := setupApp(mockService)

		mockService.On("Get", mock.Anything, "XYZ", false).
			Return(domain.Definition{}, &apperrors.NotFoundError{Kind: "status definition", Key: "XYZ"}).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/statuses/XYZ", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
