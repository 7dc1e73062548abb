package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/expenses/api/http/presenter"
	"github.com/artem13815/expenses/pkg/health"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	svc health.ReadinessUseCase
	log *slog.Logger
}

func NewHealthHandler(svc health.ReadinessUseCase, log *slog.Logger) *HealthHandler {
	return &HealthHandler{svc: svc, log: log}
}

// Health: basic liveness check.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.Envelope
// @Router  /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.Success(c, fiber.StatusOK, fiber.Map{"status": "ok"}, "Service is alive")
}

// Ready: readiness check with storage ping.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.Envelope
// @Failure 503 {object} presenter.ErrorResponse
// @Router  /ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		h.log.WarnContext(ctx, "readiness check failed", "error", err)
		return presenter.JSON(c, fiber.StatusServiceUnavailable, presenter.Envelope{
			Success: false,
			Data:    fiber.Map{"status": "not_ready"},
			Message: "Service is not ready",
		})
	}
	return presenter.Success(c, fiber.StatusOK, fiber.Map{"status": "ready"}, "Service is ready")
}
