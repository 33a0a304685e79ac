package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/psycheck/psycheck-api/internal/config"
	"github.com/psycheck/psycheck-api/internal/handler"
	"github.com/psycheck/psycheck-api/internal/middleware"
	"github.com/psycheck/psycheck-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CheckHandler  *handler.CheckHandler
	UserHandler   *handler.UserHandler
	JWTMiddleware fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	checkLimiter := middleware.RateLimit("check", cfg.CheckRateLimit, time.Minute)
	readLimiter := middleware.RateLimit("read", cfg.ReadRateLimit, time.Minute)

	if deps.CheckHandler != nil {
		checks := app.Group("/checks", jwtMiddleware)
		deps.CheckHandler.Register(checks, checkLimiter, readLimiter)
	}

	if deps.UserHandler != nil {
		users := app.Group("/users", jwtMiddleware)
		deps.UserHandler.Register(users, readLimiter)
	}
}
