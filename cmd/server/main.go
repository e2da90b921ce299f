package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"insurtech-portal/internal/adapters/http/middleware"
	"insurtech-portal/internal/adapters/http/routes"
	"insurtech-portal/internal/adapters/persistence/csvstore"
	"insurtech-portal/internal/config"
	"insurtech-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "insurtech-portal/docs" // Swagger docs
)

// @title Insurtech Policy Portal API
// @version 1.0
// @description Credential-gated dashboard API for browsing and editing insurance policy records

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open the policy store and run the load-time schema migration
	store := csvstore.New(cfg.Data.File)
	records, err := store.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load policy data: %v", err)
	}
	log.Printf("✅ Policy data loaded: %d records from %s", len(records), cfg.Data.File)

	// Start cron service (nightly backup + credential expiry check)
	cronService := services.NewCronService(cfg, cfg.Data.File)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Insurtech Policy Portal v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass store and cfg for dependency injection)
	routes.Setup(app, store, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
