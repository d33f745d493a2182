package handler

import (
	"context"
	"errors"
	"net/http"

	"courier-bridge/internal/core/server"
	"courier-bridge/internal/features/orders/domain"

	"github.com/gofiber/fiber/v2"
)

// OrderReader is the order store as seen by the handler.
type OrderReader interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	GetOrderMeta(ctx context.Context, orderID, key string) (string, error)
}

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the order store.
	service OrderReader
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s OrderReader) *OrderHandler {
	return &OrderHandler{
		service: s,
	}
}

// OrderResponse is an order together with its courier metadata.
type OrderResponse struct {
	*domain.Order
	// Voucher is the courier voucher, empty when no shipment exists.
	Voucher string `json:"voucher"`
	// FailureNote is set once the shipment was cancelled or failed.
	FailureNote string `json:"failure_note,omitempty"`
}

// Register mounts the routes on router.
func (h *OrderHandler) Register(router fiber.Router) {
	router.Get("/orders/:id", h.GetOrder)
}

// GetOrder handles GET /api/orders/:id.
// @Summary Get Order by ID
// @Description Fetch order details with the courier voucher and failure note.
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /api/orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	ctx := c.UserContext()

	order, err := h.service.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			return server.RespondMessage(c, http.StatusNotFound, "Order not found")
		}
		return server.RespondError(c, err)
	}

	resp := OrderResponse{Order: order}
	if resp.Voucher, err = h.service.GetOrderMeta(ctx, orderID, domain.MetaVoucher); err != nil {
		return server.RespondError(c, err)
	}
	if resp.FailureNote, err = h.service.GetOrderMeta(ctx, orderID, domain.MetaFailureNote); err != nil {
		return server.RespondError(c, err)
	}

	return c.Status(http.StatusOK).JSON(resp)
}
