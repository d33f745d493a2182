package handler

import (
	"context"
	"net/http"

	"courier-bridge/internal/core/server"
	"courier-bridge/internal/features/shipments/domain"

	"github.com/gofiber/fiber/v2"
)

// ShipmentService is the shipment lifecycle as seen by the handler.
type ShipmentService interface {
	Create(ctx context.Context, orderID string) (*domain.Outcome, error)
	AssignVoucher(ctx context.Context, orderID, voucher string, conclude bool) (*domain.Outcome, error)
	DeleteVoucher(ctx context.Context, orderID string) error
	FetchStatus(ctx context.Context, orderID, override, locale string) (*domain.History, error)
	Sync(ctx context.Context, orderID string) (*domain.Outcome, error)
	Modify(ctx context.Context, orderID, message string) (string, error)
	Cancel(ctx context.Context, orderID string) (*domain.Outcome, error)
}

// ShipmentHandler handles the manual shipment actions of an order.
type ShipmentHandler struct {
	service ShipmentService
}

// NewShipmentHandler creates a new ShipmentHandler.
func NewShipmentHandler(service ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// VoucherRequest assigns a voucher by hand.
type VoucherRequest struct {
	Voucher string `json:"voucher"`
	// Conclude applies the voucher's status history to the order right away.
	Conclude bool `json:"conclude"`
}

// ModificationRequest carries the free-text modification message.
type ModificationRequest struct {
	Message string `json:"message"`
}

// ModificationResponse is the modification id assigned by the courier.
type ModificationResponse struct {
	ModCode string `json:"mod_code"`
}

// Register mounts the routes on router.
func (h *ShipmentHandler) Register(router fiber.Router) {
	orders := router.Group("/orders/:id")
	orders.Post("/shipment", h.CreateShipment)
	orders.Get("/shipment/status", h.GetStatus)
	orders.Post("/shipment/sync", h.SyncShipment)
	orders.Post("/shipment/modification", h.ModifyShipment)
	orders.Post("/shipment/cancellation", h.CancelShipment)
	orders.Put("/voucher", h.AssignVoucher)
	orders.Delete("/voucher", h.DeleteVoucher)
}

// CreateShipment handles POST /api/orders/:id/shipment.
// @Summary Create a courier shipment
// @Description Submits the order to the courier and stores the returned voucher.
// @Tags Shipments
// @Produce json
// @Param id path string true "Order ID"
// @Success 201 {object} domain.Outcome
// @Failure 422 {object} server.ErrorResponse
// @Failure 502 {object} server.ErrorResponse
// @Router /api/orders/{id}/shipment [post]
func (h *ShipmentHandler) CreateShipment(c *fiber.Ctx) error {
	outcome, err := h.service.Create(c.UserContext(), c.Params("id"))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(outcome)
}

// GetStatus handles GET /api/orders/:id/shipment/status.
// @Summary Get the shipment status history
// @Tags Shipments
// @Produce json
// @Param id path string true "Order ID"
// @Param voucher query string false "Voucher to query instead of the stored one"
// @Param locale query string false "Description language (el, en)"
// @Success 200 {object} domain.History
// @Failure 422 {object} server.ErrorResponse
// @Router /api/orders/{id}/shipment/status [get]
func (h *ShipmentHandler) GetStatus(c *fiber.Ctx) error {
	history, err := h.service.FetchStatus(c.UserContext(), c.Params("id"), c.Query("voucher"), c.Query("locale"))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(history)
}

// SyncShipment handles POST /api/orders/:id/shipment/sync.
// @Summary Synchronize the order with its shipment
// @Tags Shipments
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Outcome
// @Router /api/orders/{id}/shipment/sync [post]
func (h *ShipmentHandler) SyncShipment(c *fiber.Ctx) error {
	outcome, err := h.service.Sync(c.UserContext(), c.Params("id"))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(outcome)
}

// ModifyShipment handles POST /api/orders/:id/shipment/modification.
// @Summary Request a shipment modification
// @Tags Shipments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body ModificationRequest true "Modification"
// @Success 200 {object} ModificationResponse
// @Router /api/orders/{id}/shipment/modification [post]
func (h *ShipmentHandler) ModifyShipment(c *fiber.Ctx) error {
	var req ModificationRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondMessage(c, http.StatusBadRequest, "invalid request body")
	}

	modCode, err := h.service.Modify(c.UserContext(), c.Params("id"), req.Message)
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(ModificationResponse{ModCode: modCode})
}

// CancelShipment handles POST /api/orders/:id/shipment/cancellation.
// @Summary Cancel the shipment and the order
// @Tags Shipments
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Outcome
// @Router /api/orders/{id}/shipment/cancellation [post]
func (h *ShipmentHandler) CancelShipment(c *fiber.Ctx) error {
	outcome, err := h.service.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(outcome)
}

// AssignVoucher handles PUT /api/orders/:id/voucher.
// @Summary Assign or edit the voucher of an order
// @Tags Shipments
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body VoucherRequest true "Voucher"
// @Success 200 {object} domain.Outcome
// @Failure 409 {object} server.ErrorResponse
// @Failure 422 {object} server.ErrorResponse
// @Router /api/orders/{id}/voucher [put]
func (h *ShipmentHandler) AssignVoucher(c *fiber.Ctx) error {
	var req VoucherRequest
	if err := c.BodyParser(&req); err != nil {
		return server.RespondMessage(c, http.StatusBadRequest, "invalid request body")
	}

	outcome, err := h.service.AssignVoucher(c.UserContext(), c.Params("id"), req.Voucher, req.Conclude)
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(outcome)
}

// DeleteVoucher handles DELETE /api/orders/:id/voucher.
// @Summary Remove the voucher of an order
// @Tags Shipments
// @Param id path string true "Order ID"
// @Success 204
// @Failure 500 {object} server.ErrorResponse
// @Router /api/orders/{id}/voucher [delete]
func (h *ShipmentHandler) DeleteVoucher(c *fiber.Ctx) error {
	if err := h.service.DeleteVoucher(c.UserContext(), c.Params("id")); err != nil {
		return server.RespondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
