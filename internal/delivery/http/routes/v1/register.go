package v1

import (
	"user-service/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers are the v1 endpoints plus the middleware guarding them.
type Handlers struct {
	Users *handler.UserHandler
	Auth  fiber.Handler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	RegisterUsers(r, h.Users, h.Auth)
}
