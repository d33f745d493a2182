package handler

import (
	"context"
	"errors"
	"net/http"

	"courier-bridge/internal/core/server"
	"courier-bridge/internal/features/products/domain"
	"courier-bridge/internal/features/products/service"

	"github.com/gofiber/fiber/v2"
)

// SyncService is the product sync engine as seen by the handler.
type SyncService interface {
	Synchronize(ctx context.Context, skus []string) (service.SyncReport, error)
	SynchronizeAll(ctx context.Context) (service.SyncReport, error)
	SynchronizeProduct(ctx context.Context, id string) (service.SyncReport, error)
	Enable(ctx context.Context, id string) error
	Disable(ctx context.Context, id string) error
	SKUChanged(ctx context.Context, id string) error
	State(ctx context.Context, id string) (domain.SyncState, error)
	CompositeStatus(ctx context.Context, id string) (domain.CompositeStatus, error)
}

// ProductHandler handles HTTP requests for the product stock sync.
type ProductHandler struct {
	service SyncService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service SyncService) *ProductHandler {
	return &ProductHandler{service: service}
}

// SyncRequest lists the SKUs to synchronize.
type SyncRequest struct {
	SKUs []string `json:"skus"`
}

// SyncFlagResponse is the sync participation of a product.
type SyncFlagResponse struct {
	ProductID string                 `json:"product_id"`
	Enabled   bool                   `json:"enabled"`
	Status    domain.SyncStatus      `json:"status,omitempty"`
	Composite domain.CompositeStatus `json:"composite"`
}

// Register mounts the routes on router.
func (h *ProductHandler) Register(router fiber.Router) {
	router.Post("/products/sync", h.Synchronize)
	router.Post("/products/sync-all", h.SynchronizeAll)
	router.Post("/products/:id/sync", h.SynchronizeProduct)
	router.Get("/products/:id/sync-flag", h.GetSyncFlag)
	router.Put("/products/:id/sync-flag", h.EnableSync)
	router.Delete("/products/:id/sync-flag", h.DisableSync)
	router.Post("/products/:id/sku-changed", h.SKUChanged)
}

// Synchronize handles POST /api/products/sync.
// @Summary Synchronize stock by SKU
// @Description Sets the local stock of the sync-enabled products carrying the given SKUs from the courier warehouse.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body SyncRequest true "SKUs"
// @Success 200 {object} service.SyncReport
// @Failure 400 {object} server.ErrorResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /api/products/sync [post]
func (h *ProductHandler) Synchronize(c *fiber.Ctx) error {
	var req SyncRequest
	if err := c.BodyParser(&req); err != nil || len(req.SKUs) == 0 {
		return server.RespondMessage(c, http.StatusBadRequest, "skus is required")
	}

	report, err := h.service.Synchronize(c.UserContext(), req.SKUs)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(report)
}

// SynchronizeAll handles POST /api/products/sync-all.
// @Summary Synchronize every enabled product
// @Tags Products
// @Produce json
// @Success 200 {object} service.SyncReport
// @Failure 503 {object} server.ErrorResponse
// @Router /api/products/sync-all [post]
func (h *ProductHandler) SynchronizeAll(c *fiber.Ctx) error {
	report, err := h.service.SynchronizeAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(report)
}

// SynchronizeProduct handles POST /api/products/:id/sync.
// @Summary Synchronize a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} service.SyncReport
// @Failure 422 {object} server.ErrorResponse
// @Router /api/products/{id}/sync [post]
func (h *ProductHandler) SynchronizeProduct(c *fiber.Ctx) error {
	report, err := h.service.SynchronizeProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(report)
}

// GetSyncFlag handles GET /api/products/:id/sync-flag.
// @Summary Get the sync state of a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} SyncFlagResponse
// @Router /api/products/{id}/sync-flag [get]
func (h *ProductHandler) GetSyncFlag(c *fiber.Ctx) error {
	return h.respondFlag(c, c.Params("id"))
}

// EnableSync handles PUT /api/products/:id/sync-flag.
// @Summary Enable the stock sync of a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} SyncFlagResponse
// @Router /api/products/{id}/sync-flag [put]
func (h *ProductHandler) EnableSync(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Enable(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return h.respondFlag(c, id)
}

// DisableSync handles DELETE /api/products/:id/sync-flag.
// @Summary Disable the stock sync of a product
// @Tags Products
// @Param id path string true "Product ID"
// @Success 204
// @Router /api/products/{id}/sync-flag [delete]
func (h *ProductHandler) DisableSync(c *fiber.Ctx) error {
	if err := h.service.Disable(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// SKUChanged handles POST /api/products/:id/sku-changed, called by the store's
// product update webhook when a SKU is edited.
// @Summary Reset the sync status after a SKU edit
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} SyncFlagResponse
// @Router /api/products/{id}/sku-changed [post]
func (h *ProductHandler) SKUChanged(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.SKUChanged(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return h.respondFlag(c, id)
}

func (h *ProductHandler) respondFlag(c *fiber.Ctx, id string) error {
	state, err := h.service.State(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	composite, err := h.service.CompositeStatus(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(SyncFlagResponse{
		ProductID: id,
		Enabled:   state.Enabled,
		Status:    state.Status,
		Composite: composite,
	})
}

func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrProductNotFound) {
		return server.RespondMessage(c, http.StatusNotFound, err.Error())
	}
	return server.RespondError(c, err)
}
