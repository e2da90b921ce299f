package routes

import (
	"insurtech-portal/internal/adapters/http/handlers"
	"insurtech-portal/internal/adapters/http/middleware"
	"insurtech-portal/internal/adapters/persistence/csvstore"
	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, store *csvstore.Store, cfg *config.Config) {
	// Initialize services
	authService := services.NewAuthService(cfg)
	policyService := services.NewPolicyService(store, cfg.Data.TermMatchMode)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	policyHandler := handlers.NewPolicyHandler(policyService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter rate limit on login)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Policy routes (authenticated; mutations are admin only)
	policyRoutes := apiV1.Group("/policies")
	policyRoutes.Use(middleware.AuthMiddleware(cfg))

	policyRoutes.Get("/", policyHandler.ListPolicies)
	policyRoutes.Post("/recommend", policyHandler.Recommend)
	policyRoutes.Get("/:id", policyHandler.GetPolicy)

	policyRoutes.Post("/", middleware.AdminOnly(), policyHandler.CreatePolicy)
	policyRoutes.Put("/", middleware.AdminOnly(), policyHandler.SavePolicies)
	policyRoutes.Put("/:id", middleware.AdminOnly(), policyHandler.UpdatePolicy)
	policyRoutes.Delete("/:id", middleware.AdminOnly(), policyHandler.DeletePolicy)
	policyRoutes.Post("/:id/duplicate", middleware.AdminOnly(), policyHandler.DuplicatePolicy)
}
