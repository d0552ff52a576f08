package middleware

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RequestTimeout bounds the context handed to services. Handlers still run to
// completion; only context-aware calls (DB, cache) observe the deadline.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.Context(), d)
		defer cancel()
		c.SetContext(ctx)
		return c.Next()
	}
}
