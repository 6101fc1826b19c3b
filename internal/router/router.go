package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mosab320010/-betc/internal/config"
	"github.com/mosab320010/-betc/internal/handler"
	"github.com/mosab320010/-betc/internal/middleware"
	"github.com/mosab320010/-betc/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	EvaluationHandler *EvaluationHandlerDep
}

// EvaluationHandlerDep wraps the evaluation handler with its rate limiter.
type EvaluationHandlerDep struct {
	Handler   *handler.EvaluationHandler
	RateLimit fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	if deps.EvaluationHandler != nil && deps.EvaluationHandler.Handler != nil {
		group := api.Group("/evaluations")
		if deps.EvaluationHandler.RateLimit != nil {
			group.Use(middleware.MethodGuard(fiber.MethodPost, deps.EvaluationHandler.RateLimit))
		}
		deps.EvaluationHandler.Handler.Register(group)
	}
}
