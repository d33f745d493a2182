package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"courier-bridge/internal/features/reconcile/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSweeper struct {
	result service.SweepResult
	err    error
}

func (s stubSweeper) Sweep(ctx context.Context) (service.SweepResult, error) {
	return s.result, s.err
}

func TestReconcileHandler_RunSweep(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app := fiber.New()
		NewReconcileHandler(stubSweeper{result: service.SweepResult{RunID: "r1", Scanned: 3, Concluded: 1}}).Register(app)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/reconcile/sweep", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body service.SweepResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "r1", body.RunID)
		assert.Equal(t, 3, body.Scanned)
	})

	t.Run("Failure", func(t *testing.T) {
		app := fiber.New()
		NewReconcileHandler(stubSweeper{err: errors.New("store down")}).Register(app)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/reconcile/sweep", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}
