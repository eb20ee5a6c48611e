package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

func TestCollectionLifecycle(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, user.ID, "Weeknight", "Quick dinners")
	require.NoError(t, err)

	recipe := &models.Recipe{UserID: user.ID, Title: "Soup"}
	require.NoError(t, db.Create(recipe).Error)

	require.NoError(t, svc.AddRecipe(ctx, user.ID, collection.ID, recipe.ID))
	// Adding twice is a no-op, not an error.
	require.NoError(t, svc.AddRecipe(ctx, user.ID, collection.ID, recipe.ID))

	recipes, err := svc.ListRecipes(ctx, collection.ID)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Soup", recipes[0].Title)

	require.NoError(t, svc.RemoveRecipe(ctx, user.ID, collection.ID, recipe.ID))
	recipes, err = svc.ListRecipes(ctx, collection.ID)
	require.NoError(t, err)
	assert.Empty(t, recipes)

	require.NoError(t, svc.DeleteCollection(ctx, user.ID, collection.ID))
	collections, err := svc.ListCollections(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, collections)
}

func TestCollectionOwnershipEnforced(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	other := createTestUser(t, db, "Bob", "bob@example.com")
	svc := service.NewCollectionService(db)
	ctx := context.Background()

	collection, err := svc.CreateCollection(ctx, user.ID, "Mine", "")
	require.NoError(t, err)

	recipe := &models.Recipe{UserID: user.ID, Title: "Soup"}
	require.NoError(t, db.Create(recipe).Error)

	assert.ErrorIs(t, svc.AddRecipe(ctx, other.ID, collection.ID, recipe.ID), service.ErrNotCollectionOwner)
	assert.ErrorIs(t, svc.DeleteCollection(ctx, other.ID, collection.ID), service.ErrNotCollectionOwner)

	// A recipe owned by someone else cannot be added either.
	theirRecipe := &models.Recipe{UserID: other.ID, Title: "Theirs"}
	require.NoError(t, db.Create(theirRecipe).Error)
	assert.Error(t, svc.AddRecipe(ctx, user.ID, collection.ID, theirRecipe.ID))
}
