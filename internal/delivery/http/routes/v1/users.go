package v1

import (
	"user-service/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// RegisterUsers mounts the profile endpoints. Both require an authenticated caller.
func RegisterUsers(r fiber.Router, userHandler *handler.UserHandler, auth fiber.Handler) {
	if r == nil || userHandler == nil || auth == nil {
		return
	}

	r.Get("/users/me", auth, userHandler.GetProfile)
	r.Put("/user/:id", auth, userHandler.UpdateUser)
}
