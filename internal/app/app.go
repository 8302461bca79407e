// Package app assembles the HTTP application from its parts.
package app

import (
	"catalog/internal/config"
	"catalog/internal/handlers"
	"catalog/internal/logger"
	"catalog/internal/middleware"
	"catalog/internal/services"
	"catalog/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New wires services, handlers and middleware over store. publisher may be
// nil, in which case no product events are emitted.
func New(cfg *config.Config, store *storage.Store, publisher services.EventPublisher) *fiber.App {
	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(store.Users, tokens)
	productService := services.NewProductService(store.Products, publisher)

	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: cfg.AppEnv == "production",
	})

	app.Use(logger.RequestLogger())
	app.Use(recover.New())

	app.Get("/", handlers.Health)

	api := app.Group(cfg.APIPrefix)
	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api,
		middleware.AuthRequired(authService),
		middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow).Handler(),
	)

	app.Use(handlers.NotFound)

	return app
}
