package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"dmmap/internal/metrics"
)

// New builds the fiber app with middleware and all routes registered.
func New(deps *Dependencies, bodyLimitMB int) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 32
	}
	app := fiber.New(fiber.Config{
		AppName:               "dmmap",
		BodyLimit:             bodyLimitMB << 20,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	SetupRoutes(app, deps)
	return app
}

// SetupRoutes registers the API, health and metrics routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(AccessLogMiddleware())

	app.Get("/healthz", HealthHandler())

	api := app.Group("/api")
	api.Post("/upload", UploadHandler(deps))
	api.Get("/coordinates", CoordinatesHandler(deps))
	api.Get("/coordinates.geojson", GeoJSONHandler(deps))
	api.Get("/tiles", TilesHandler())
}
