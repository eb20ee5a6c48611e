package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/models"
)

var ErrNotTagOwner = errors.New("tag does not belong to user")

// TagService handles tag operations
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a new TagService instance
func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// GetOrCreateTag returns the user's tag with the given name, creating it
// if it does not exist yet. Tag names are unique per user.
func (s *TagService) GetOrCreateTag(ctx context.Context, userID uuid.UUID, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("user_id = ? AND name = ?", userID, name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag = models.Tag{UserID: userID, Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListTags lists a user's tags
func (s *TagService) ListTags(ctx context.Context, userID uuid.UUID) ([]*models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}

	result := make([]*models.Tag, len(tags))
	for i := range tags {
		result[i] = &tags[i]
	}
	return result, nil
}

// DeleteTag removes a tag and its assignment rows
func (s *TagService) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error; err != nil {
		return err
	}
	if tag.UserID != userID {
		return ErrNotTagOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tagID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tag{}, "id = ?", tagID).Error
	})
}

// TagRecipe applies a tag (by name) to a recipe, creating the tag first if
// needed. Both rows must belong to the same user.
func (s *TagService) TagRecipe(ctx context.Context, userID, recipeID uuid.UUID, name string) (*models.Tag, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		return nil, err
	}
	if recipe.UserID != userID {
		return nil, ErrNotTagOwner
	}

	tag, err := s.GetOrCreateTag(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RecipeTag{}).
		Where("tag_id = ? AND recipe_id = ?", tag.ID, recipeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		row := models.RecipeTag{RecipeID: recipeID, TagID: tag.ID}
		if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
			return nil, err
		}
	}
	return tag, nil
}

// UntagRecipe removes a tag assignment from a recipe
func (s *TagService) UntagRecipe(ctx context.Context, userID, recipeID, tagID uuid.UUID) error {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", tagID).Error; err != nil {
		return err
	}
	if tag.UserID != userID {
		return ErrNotTagOwner
	}

	return s.db.WithContext(ctx).
		Where("tag_id = ? AND recipe_id = ?", tagID, recipeID).
		Delete(&models.RecipeTag{}).Error
}
