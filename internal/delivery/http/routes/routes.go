package routes

import (
	"user-service/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/static"
)

// Uploads exposes stored profile pictures under PublicPath. Empty Dir disables it.
type Uploads struct {
	Dir        string
	PublicPath string
}

type Registry struct {
	health  *handler.HealthHandler
	v1      V1Handlers
	uploads Uploads
}

func NewRegistry(health *handler.HealthHandler, v1 V1Handlers, uploads Uploads) *Registry {
	return &Registry{health: health, v1: v1, uploads: uploads}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerUploads(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	if r.health == nil {
		return
	}
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerUploads(app *fiber.App) {
	if r.uploads.Dir == "" || r.uploads.PublicPath == "" {
		return
	}
	app.Use(r.uploads.PublicPath, static.New(r.uploads.Dir))
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.v1)
}
