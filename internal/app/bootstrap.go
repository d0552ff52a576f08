package app

import (
	"fmt"
	"strings"

	"user-service/internal/delivery/http/handler"
	"user-service/internal/delivery/http/middleware"
	"user-service/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

// Room for form fields and multipart framing on top of the picture itself.
const bodyLimitSlack = 1 << 20

type App struct {
	Fiber *fiber.App
}

func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Logger)

	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler: errMw.Handle,
		BodyLimit:    bodyLimit(c.Config.Upload.MaxBytes),
	})

	registerGlobalMiddleware(f, c, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f}
}

func registerGlobalMiddleware(app *fiber.App, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger.Named("http")).Middleware())
	app.Use(errMw.Middleware())
	app.Use(middleware.RequestTimeout(c.Config.App.RequestTimeout))
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"database": c.DB,
		"cache":    c.Cache,
	})

	uploads := routes.Uploads{}
	if c.Storage != nil {
		uploads = routes.Uploads{Dir: c.Storage.Dir(), PublicPath: c.Config.Upload.PublicPath}
	}

	routes.NewRegistry(health, routes.V1Handlers{
		Users: handler.NewUserHandler(c.Users),
		Auth:  middleware.NewAuthMiddleware(c.JWT).Middleware(),
	}, uploads).Register(app)
}

func bodyLimit(maxUpload int64) int {
	if maxUpload <= 0 {
		return 4 << 20
	}
	return int(maxUpload) + bodyLimitSlack
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
