package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/service"
)

// SetupAPI wires all services and handlers onto the router.
func SetupAPI(router *gin.Engine, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, blobs service.BlobStore, extractor service.RecipeExtractor) {
	v1 := router.Group("/api/v1")
	{
		// Initialize services
		authService := service.NewAuthService(db, cfg.JWTSecret)
		profileService := service.NewProfileService(db)
		recipeService := service.NewRecipeService(db)
		collectionService := service.NewCollectionService(db)
		tagService := service.NewTagService(db)
		creditsService := service.NewCreditsService(db)
		backupService := service.NewBackupService(db, blobs)

		// Initialize handlers
		authHandler := NewAuthHandler(authService)
		profileHandler := NewProfileHandler(profileService, creditsService, authService)
		recipeHandler := NewRecipeHandler(recipeService, tagService, authService)
		collectionHandler := NewCollectionHandler(collectionService, authService)
		tagHandler := NewTagHandler(tagService, authService)
		backupHandler := NewBackupHandler(backupService, redisClient, authService)
		scanHandler := NewScanHandler(extractor, creditsService, redisClient, cfg, authService)

		// Register routes
		authHandler.RegisterRoutes(v1)
		profileHandler.RegisterRoutes(v1)
		recipeHandler.RegisterRoutes(v1)
		collectionHandler.RegisterRoutes(v1)
		tagHandler.RegisterRoutes(v1)
		backupHandler.RegisterRoutes(v1)
		scanHandler.RegisterRoutes(v1)
	}
}
