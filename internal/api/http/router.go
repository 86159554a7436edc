package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civicflo/report-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Reports    *handlers.ReportsHandler
	Tickets    *handlers.TicketsHandler
	Registry   *prometheus.Registry
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	if cfg.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	if cfg.UploadsDir != "" {
		app.Static("/uploads", cfg.UploadsDir)
	}

	api := app.Group("/api/v1")
	api.Post("/report", cfg.Reports.SubmitReport)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Put("/tickets/:id/status", cfg.Tickets.UpdateStatus)
	api.Post("/tickets/:id/fix", cfg.Tickets.MarkFixed)
	api.Post("/seed", cfg.Tickets.Seed)
}
