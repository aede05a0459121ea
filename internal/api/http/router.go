package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/orgchart-service/internal/api/http/handlers"
	"github.com/spec-kit/orgchart-service/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Employees    *handlers.EmployeesHandler
	Organization *handlers.OrganizationHandler
	Settings     *handlers.SettingsHandler
	UploadDir    string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	if cfg.UploadDir != "" {
		app.Static(storage.PublicPrefix, cfg.UploadDir)
	}

	api := app.Group("/api")

	employees := api.Group("/employees")
	employees.Get("/", cfg.Employees.List)
	employees.Post("/", cfg.Employees.Create)
	employees.Get("/:id", cfg.Employees.Get)
	employees.Put("/:id", cfg.Employees.Update)
	employees.Delete("/:id", cfg.Employees.Delete)

	api.Get("/organization", cfg.Organization.Tree)
	api.Get("/organization/:id", cfg.Organization.Subtree)

	api.Get("/settings", cfg.Settings.Get)
}
