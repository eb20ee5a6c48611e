package main

import (
	"context"
	"log"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis is optional. Without it imports lose their per-user lock,
	// progress polling, and rate limiting, but the API still serves.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, continuing without it: %v", err)
		redisClient = nil
	}

	s3Config, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure S3: %v", err)
	}
	blobs := service.NewS3BlobStore(s3Config)

	var extractor service.RecipeExtractor
	if cfg.ExtractorURL != "" {
		extractor = service.NewHTTPRecipeExtractor(cfg.ExtractorURL)
	} else {
		log.Printf("EXTRACTOR_URL not set, recipe scanning disabled")
	}

	srv := server.NewServer(db, redisClient, cfg, blobs, extractor)

	log.Printf("Starting server on port %s", cfg.ServerPort)
	if err := srv.Start(cfg.ServerPort); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
