package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/forkful/forkful-backend/internal/models"
)

// RecipeService handles recipe operations
type RecipeService struct {
	db *gorm.DB
}

var _ IRecipeService = (*RecipeService)(nil)

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// CreateRecipe creates a recipe together with its ingredient and step rows.
// Ingredients get dense order indexes and steps dense step numbers from
// their slice positions.
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []models.RecipeIngredient, steps []models.RecipeStep) (*models.Recipe, error) {
	recipe.Embedding = GenerateEmbedding(recipe.Title + " " + recipe.Description)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].RecipeID = recipe.ID
			ingredients[i].OrderIndex = i
			if err := tx.Create(&ingredients[i]).Error; err != nil {
				return err
			}
		}
		for i := range steps {
			steps[i].RecipeID = recipe.ID
			steps[i].StepNumber = i + 1
			if err := tx.Create(&steps[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe retrieves a recipe by ID
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe persists changes to an existing recipe.
func (s *RecipeService) UpdateRecipe(ctx context.Context, recipe *models.Recipe) error {
	return s.db.WithContext(ctx).Save(recipe).Error
}

// GetRecipeDetails returns a recipe with its ingredients (by order index),
// steps (by step number) and images.
func (s *RecipeService) GetRecipeDetails(ctx context.Context, id uuid.UUID) (*models.Recipe, []models.RecipeIngredient, []models.RecipeStep, []models.RecipeImage, error) {
	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	var ingredients []models.RecipeIngredient
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", id).Order("order_index").Find(&ingredients).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	var steps []models.RecipeStep
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", id).Order("step_number").Find(&steps).Error; err != nil {
		return nil, nil, nil, nil, err
	}
	var images []models.RecipeImage
	if err := s.db.WithContext(ctx).Where("recipe_id = ?", id).Find(&images).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	return recipe, ingredients, steps, images, nil
}

// DeleteRecipe soft-deletes a recipe and removes its dependent rows.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error; err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeStep{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeCollection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// ListRecipes lists a user's recipes. Archived recipes are excluded from
// normal listings unless includeArchived is set.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*models.Recipe, error) {
	query := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}

	var recipes []models.Recipe
	if err := query.Order("created_at DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// SearchRecipes searches a user's recipes. On PostgreSQL results are
// ordered by embedding distance; elsewhere a keyword match is used.
func (s *RecipeService) SearchRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error) {
	dbQuery := s.db.WithContext(ctx).Where("user_id = ? AND archived = ?", userID, false)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		}
	}

	var recipes []models.Recipe
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}

// SetFavorite sets or clears the favorite flag on a recipe.
func (s *RecipeService) SetFavorite(ctx context.Context, id uuid.UUID, favorite bool) error {
	return s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Update("favorite", favorite).Error
}

// SetArchived soft-deletes or restores a recipe via the archived flag.
func (s *RecipeService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) error {
	return s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Update("archived", archived).Error
}
