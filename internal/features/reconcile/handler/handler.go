package handler

import (
	"context"
	"net/http"

	"courier-bridge/internal/core/server"
	"courier-bridge/internal/features/reconcile/service"

	"github.com/gofiber/fiber/v2"
)

// SweepRunner runs a reconciliation sweep.
type SweepRunner interface {
	Sweep(ctx context.Context) (service.SweepResult, error)
}

// ReconcileHandler exposes the reconciliation sweep for hosts without a scheduler.
type ReconcileHandler struct {
	sweeper SweepRunner
}

// NewReconcileHandler creates a new ReconcileHandler.
func NewReconcileHandler(sweeper SweepRunner) *ReconcileHandler {
	return &ReconcileHandler{sweeper: sweeper}
}

// Register mounts the routes on router.
func (h *ReconcileHandler) Register(router fiber.Router) {
	router.Post("/reconcile/sweep", h.RunSweep)
}

// RunSweep handles POST /api/reconcile/sweep.
// @Summary Run a reconciliation sweep
// @Description Synchronizes every processing order with its courier shipment.
// @Tags Reconcile
// @Produce json
// @Success 200 {object} service.SweepResult
// @Failure 500 {object} server.ErrorResponse
// @Router /api/reconcile/sweep [post]
func (h *ReconcileHandler) RunSweep(c *fiber.Ctx) error {
	result, err := h.sweeper.Sweep(c.UserContext())
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(result)
}
