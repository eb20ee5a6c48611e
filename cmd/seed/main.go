package main

import (
	"context"
	"log"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/database"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
)

// Seeds a development database with a demo account and a handful of
// recipes, a collection, and tags. Safe to re-run: it skips users that
// already exist.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()

	authService := service.NewAuthService(db, cfg.JWTSecret)
	recipeService := service.NewRecipeService(db)
	collectionService := service.NewCollectionService(db)
	tagService := service.NewTagService(db)

	const demoEmail = "demo@forkful.dev"
	if _, err := authService.Register("Demo Cook", demoEmail, "demo-password"); err != nil {
		if err == service.ErrUserExists {
			log.Printf("Demo user already seeded, nothing to do")
			return
		}
		log.Fatalf("Failed to register demo user: %v", err)
	}

	var user models.User
	if err := db.Where("email = ?", demoEmail).First(&user).Error; err != nil {
		log.Fatalf("Failed to look up demo user: %v", err)
	}

	pancakes, err := recipeService.CreateRecipe(ctx,
		&models.Recipe{
			UserID:      user.ID,
			Title:       "Buttermilk Pancakes",
			Description: "Fluffy weekend pancakes.",
			Servings:    4,
			PrepMinutes: 10,
			CookMinutes: 15,
			Difficulty:  "easy",
			Category:    "breakfast",
			SourceType:  "manual",
		},
		[]models.RecipeIngredient{
			{Name: "flour", Quantity: "2", Unit: "cups"},
			{Name: "buttermilk", Quantity: "1.5", Unit: "cups"},
			{Name: "eggs", Quantity: "2"},
		},
		[]models.RecipeStep{
			{Instruction: "Whisk the dry ingredients together."},
			{Instruction: "Fold in buttermilk and eggs until just combined."},
			{Instruction: "Cook on a hot griddle until bubbles form, then flip."},
		},
	)
	if err != nil {
		log.Fatalf("Failed to seed recipe: %v", err)
	}

	soup, err := recipeService.CreateRecipe(ctx,
		&models.Recipe{
			UserID:      user.ID,
			Title:       "Roasted Tomato Soup",
			Description: "Deeply flavored soup from oven-roasted tomatoes.",
			Servings:    6,
			PrepMinutes: 15,
			CookMinutes: 45,
			Difficulty:  "easy",
			Category:    "soup",
			SourceType:  "manual",
		},
		[]models.RecipeIngredient{
			{Name: "tomatoes", Quantity: "2", Unit: "lbs"},
			{Name: "garlic", Quantity: "4", Unit: "cloves"},
			{Name: "vegetable stock", Quantity: "4", Unit: "cups"},
		},
		[]models.RecipeStep{
			{Instruction: "Roast tomatoes and garlic at 400F for 40 minutes."},
			{Instruction: "Blend with stock and simmer 10 minutes."},
		},
	)
	if err != nil {
		log.Fatalf("Failed to seed recipe: %v", err)
	}

	weeknight, err := collectionService.CreateCollection(ctx, user.ID, "Weeknight Favorites", "Quick dinners that always work")
	if err != nil {
		log.Fatalf("Failed to seed collection: %v", err)
	}
	if err := collectionService.AddRecipe(ctx, user.ID, weeknight.ID, soup.ID); err != nil {
		log.Fatalf("Failed to add recipe to collection: %v", err)
	}

	for _, tag := range []string{"comfort-food", "vegetarian"} {
		if _, err := tagService.TagRecipe(ctx, user.ID, soup.ID, tag); err != nil {
			log.Fatalf("Failed to tag recipe: %v", err)
		}
	}
	if _, err := tagService.TagRecipe(ctx, user.ID, pancakes.ID, "comfort-food"); err != nil {
		log.Fatalf("Failed to tag recipe: %v", err)
	}

	log.Printf("Seeded demo user %s with %d recipes", demoEmail, 2)
}
