package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"

	"supercook/internal/handlers"
	"supercook/internal/repositories"
	"supercook/internal/services"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8001")
	viper.SetDefault("CATALOG_DB_PATH", "./recipe-dataset-main/13k-recipes.db")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	catalogPath := viper.GetString("CATALOG_DB_PATH")

	// --- Initialize Repository ---
	// The handle is opened lazily; a missing dataset file is reported
	// per request rather than failing startup.
	recipeRepo := repositories.NewSQLiteRecipeRepository(catalogPath)
	defer recipeRepo.Close()

	// --- Initialize Service and Handler ---
	searchService := services.NewSearchService(recipeRepo)
	searchHandler := handlers.NewSearchHandler(searchService)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New()) // Request logger
	app.Use(cors.New())   // The web frontend calls this API from another origin

	searchHandler.RegisterRoutes(app)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting catalog service on port %s (dataset: %s)", appPort, catalogPath)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down catalog service...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Catalog service gracefully stopped")
}
