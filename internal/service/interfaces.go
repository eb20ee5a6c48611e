package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/forkful/forkful-backend/internal/models"
)

// ProgressFunc receives incremental progress updates from long-running
// operations. Percent is 0-100, non-decreasing, and reaches 100 exactly
// once on success.
type ProgressFunc func(message string, percent int)

// BlobStore abstracts the object storage service used for recipe media.
type BlobStore interface {
	// Upload stores data under key and returns the public URL for it.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// RecipeExtractor abstracts the external AI service that turns an image,
// URL or raw text into a structured recipe draft.
type RecipeExtractor interface {
	Extract(ctx context.Context, sourceType, source string) (*RecipeDraft, error)
}

// ICreditsService defines the interface for credits ledger operations
type ICreditsService interface {
	Balance(ctx context.Context, userID uuid.UUID) (int, error)
	Grant(ctx context.Context, userID uuid.UUID, amount int, reason, reference string) error
	Consume(ctx context.Context, userID uuid.UUID, amount int, reason string) error
}

// IBackupService defines the interface for the export/import pipeline
type IBackupService interface {
	Export(ctx context.Context, userID uuid.UUID, w io.Writer, progress ProgressFunc) error
	Import(ctx context.Context, userID uuid.UUID, archive io.ReaderAt, size int64, progress ProgressFunc) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe, ingredients []models.RecipeIngredient, steps []models.RecipeStep) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*models.Recipe, error)
	SearchRecipes(ctx context.Context, userID uuid.UUID, query string) ([]*models.Recipe, error)
}
