package handler

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"time"

	"courier-bridge/internal/core/server"
	"courier-bridge/internal/features/statuses/domain"

	"github.com/gofiber/fiber/v2"
)

// DefinitionService is the status definition cache as seen by the handler.
type DefinitionService interface {
	All(ctx context.Context, force bool) (*domain.Set, error)
	Get(ctx context.Context, code string, force bool) (domain.Definition, error)
}

// StatusHandler handles HTTP requests for status definitions.
type StatusHandler struct {
	service DefinitionService
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(service DefinitionService) *StatusHandler {
	return &StatusHandler{
		service: service,
	}
}

// StatusResponse is one status definition.
type StatusResponse struct {
	Code        string `json:"code"`
	Level       string `json:"level"`
	Description string `json:"description"`
}

// StatusListResponse is the full definition set.
type StatusListResponse struct {
	UpdatedAt time.Time        `json:"updated_at"`
	Statuses  []StatusResponse `json:"statuses"`
}

// Register mounts the routes on router.
func (h *StatusHandler) Register(router fiber.Router) {
	router.Get("/statuses", h.ListStatuses)
	router.Get("/statuses/:code", h.GetStatus)
}

// ListStatuses handles GET /api/statuses.
// @Summary List status definitions
// @Description Returns the cached courier status definitions, refreshing them when stale or when refresh=true.
// @Tags Statuses
// @Produce json
// @Param refresh query bool false "Force a refresh from the courier"
// @Success 200 {object} StatusListResponse
// @Failure 503 {object} server.ErrorResponse
// @Router /api/statuses [get]
func (h *StatusHandler) ListStatuses(c *fiber.Ctx) error {
	set, err := h.service.All(c.UserContext(), c.QueryBool("refresh"))
	if err != nil {
		return server.RespondError(c, err)
	}

	resp := StatusListResponse{UpdatedAt: set.UpdatedAt, Statuses: make([]StatusResponse, 0, len(set.Definitions))}
	for code, def := range set.Definitions {
		resp.Statuses = append(resp.Statuses, StatusResponse{Code: code, Level: def.Level, Description: def.Description})
	}
	sort.Slice(resp.Statuses, func(i, j int) bool { return resp.Statuses[i].Code < resp.Statuses[j].Code })

	return c.Status(http.StatusOK).JSON(resp)
}

// GetStatus handles GET /api/statuses/:code.
// @Summary Get a status definition
// @Tags Statuses
// @Produce json
// @Param code path string true "Status code"
// @Success 200 {object} StatusResponse
// @Failure 404 {object} server.ErrorResponse
// @Router /api/statuses/{code} [get]
func (h *StatusHandler) GetStatus(c *fiber.Ctx) error {
	code, err := url.PathUnescape(c.Params("code"))
	if err != nil {
		return server.RespondMessage(c, http.StatusBadRequest, "invalid status code")
	}

	def, err := h.service.Get(c.UserContext(), code, false)
	if err != nil {
		return server.RespondError(c, err)
	}
	return c.Status(http.StatusOK).JSON(StatusResponse{Code: code, Level: def.Level, Description: def.Description})
}
