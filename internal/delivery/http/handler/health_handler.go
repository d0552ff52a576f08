package handler

import (
	"context"
	"time"

	"user-service/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness plus the state of each named dependency. Only a
// failing "database" makes the service unhealthy; other checks are informational.
type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	report := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			report[name] = "down"
			if name == "database" {
				status = fiber.StatusServiceUnavailable
			}
			continue
		}
		report[name] = "up"
	}

	if status != fiber.StatusOK {
		return response.Error(c, status, "service unavailable", report)
	}
	return response.Success(c, status, response.MessageOK, report)
}
