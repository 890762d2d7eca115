package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"radiology-app-server/internal/ai"
	"radiology-app-server/internal/config"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/routes"
	"radiology-app-server/internal/storage"
)

func main() {
	// Load environment variables; a missing .env file is fine in production
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database connection
	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	// Initialize media storage backend
	files, err := newStorage(cfg)
	if err != nil {
		log.Fatalf("Error initializing storage: %v", err)
	}

	// Optional AI triage; disabled without an API key
	var predictor ai.Predictor
	if cfg.OpenAI.APIKey != "" {
		predictor = ai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
		log.Printf("AI triage enabled with model %s", cfg.OpenAI.Model)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Origin}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Set up routes
	routes.SetupRoutes(router, db, cfg, files, predictor)

	// Start server
	serverAddr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Server running on port %s", cfg.Port)
	if err := router.Run(serverAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func newStorage(cfg *config.Config) (storage.ObjectStorage, error) {
	if cfg.Storage.Backend == "minio" {
		return storage.NewMinioStorage(context.Background(), cfg.Storage.Minio)
	}
	return storage.NewLocalStorage(cfg.Storage.MediaRoot)
}
