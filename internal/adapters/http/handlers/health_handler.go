package handlers

import (
	"time"

	"insurtech-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	startedAt time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now()}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Insurtech Policy Portal API", fiber.Map{
		"name":    "insurtech-portal",
		"version": "1.0",
	})
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Description Check whether the service is up
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	return response.Success(c, "OK", fiber.Map{
		"status": "healthy",
		"uptime": time.Since(h.startedAt).String(),
	})
}
