package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

var ErrNotCollectionOwner = errors.New("collection does not belong to user")

// CollectionService handles collection operations
type CollectionService struct {
	db *gorm.DB
}

// NewCollectionService creates a new CollectionService instance
func NewCollectionService(db *gorm.DB) *CollectionService {
	return &CollectionService{db: db}
}

// CreateCollection creates a new collection for the user
func (s *CollectionService) CreateCollection(ctx context.Context, userID uuid.UUID, name, description string) (*models.Collection, error) {
	collection := models.Collection{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&collection).Error; err != nil {
		return nil, err
	}
	return &collection, nil
}

// ListCollections lists a user's collections
func (s *CollectionService) ListCollections(ctx context.Context, userID uuid.UUID) ([]*models.Collection, error) {
	var collections []models.Collection
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&collections).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Collection, len(collections))
	for i := range collections {
		result[i] = &collections[i]
	}
	return result, nil
}

// DeleteCollection removes a collection and its membership rows. Recipes
// themselves are untouched.
func (s *CollectionService) DeleteCollection(ctx context.Context, userID, collectionID uuid.UUID) error {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", collectionID).Error; err != nil {
		return err
	}
	if collection.UserID != userID {
		return ErrNotCollectionOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", collectionID).Delete(&models.RecipeCollection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Collection{}, "id = ?", collectionID).Error
	})
}

// AddRecipe adds a recipe to a collection. Both rows must belong to the
// same user; cross-user references must never be created.
func (s *CollectionService) AddRecipe(ctx context.Context, userID, collectionID, recipeID uuid.UUID) error {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", collectionID).Error; err != nil {
		return err
	}
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return err
	}
	if collection.UserID != userID || recipe.UserID != userID {
		return ErrNotCollectionOwner
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeCollection{}).
		Where("collection_id = ? AND recipe_id = ?", collectionID, recipeID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	row := models.RecipeCollection{RecipeID: recipeID, CollectionID: collectionID}
	return s.db.WithContext(ctx).Create(&row).Error
}

// RemoveRecipe removes a recipe from a collection
func (s *CollectionService) RemoveRecipe(ctx context.Context, userID, collectionID, recipeID uuid.UUID) error {
	var collection models.Collection
	if err := s.db.WithContext(ctx).First(&collection, "id = ?", collectionID).Error; err != nil {
		return err
	}
	if collection.UserID != userID {
		return ErrNotCollectionOwner
	}

	return s.db.WithContext(ctx).
		Where("collection_id = ? AND recipe_id = ?", collectionID, recipeID).
		Delete(&models.RecipeCollection{}).Error
}

// ListRecipes returns the recipes in a collection
func (s *CollectionService) ListRecipes(ctx context.Context, collectionID uuid.UUID) ([]*models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Joins("JOIN recipe_collections ON recipe_collections.recipe_id = recipes.id").
		Where("recipe_collections.collection_id = ?", collectionID).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	result := make([]*models.Recipe, len(recipes))
	for i := range recipes {
		result[i] = &recipes[i]
	}
	return result, nil
}
