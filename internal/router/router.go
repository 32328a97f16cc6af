package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/educollab-analytics/internal/config"
	"github.com/noah-isme/educollab-analytics/internal/handler"
	"github.com/noah-isme/educollab-analytics/internal/middleware"
	"github.com/noah-isme/educollab-analytics/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler        *handler.ActivityHandler
	CourseAnalyticsHandler *handler.CourseAnalyticsHandler
	ForumAnalyticsHandler  *handler.ForumAnalyticsHandler
	DashboardHandler       *handler.DashboardHandler
	DocStore               handler.DocStoreStatus
	// WriteLimiter guards the mutating endpoints. Nil disables throttling.
	WriteLimiter fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg, deps.DocStore))
	app.Get("/metrics", observability.MetricsHandler())

	analytics := app.Group(middleware.AnalyticsPrefix, func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	var write []fiber.Handler
	if deps.WriteLimiter != nil {
		write = append(write, deps.WriteLimiter)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(analytics, write...)
	}
	if deps.CourseAnalyticsHandler != nil {
		deps.CourseAnalyticsHandler.Register(analytics, write...)
	}
	if deps.ForumAnalyticsHandler != nil {
		deps.ForumAnalyticsHandler.Register(analytics, write...)
	}
	if deps.DashboardHandler != nil {
		deps.DashboardHandler.Register(analytics)
	}
}
