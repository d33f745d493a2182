package server

import (
	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// APIKeyHeader carries the admin API key.
const APIKeyHeader = "X-API-Key"

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// RayID returns the request id assigned by the requestid middleware.
func RayID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}

// RespondError logs err and renders it with the status of its error type.
func RespondError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	rayID := RayID(c)

	log := logger.Get().With(
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.String("ray_id", rayID),
		zap.Error(err),
	)
	if status >= fiber.StatusInternalServerError {
		log.Error("Request failed")
	} else {
		log.Warn("Request rejected")
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: err.Error(),
		RayID:   rayID,
	})
}

// RespondMessage renders a client error with a fixed message.
func RespondMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorResponse{
		Message: message,
		RayID:   RayID(c),
	})
}

// RequireAPIKey rejects requests whose X-API-Key does not match the bcrypt hash.
func RequireAPIKey(hash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) != nil {
			return RespondMessage(c, fiber.StatusUnauthorized, "invalid or missing API key")
		}
		return c.Next()
	}
}
