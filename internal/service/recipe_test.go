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

func TestCreateRecipeAssignsDenseOrdering(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx,
		&models.Recipe{UserID: user.ID, Title: "Soup", Description: "A soup."},
		[]models.RecipeIngredient{
			{Name: "tomatoes", OrderIndex: 99}, // caller-provided indexes are ignored
			{Name: "garlic"},
			{Name: "stock"},
		},
		[]models.RecipeStep{
			{Instruction: "Roast."},
			{Instruction: "Blend."},
		},
	)
	require.NoError(t, err)

	_, ingredients, steps, _, err := svc.GetRecipeDetails(ctx, recipe.ID)
	require.NoError(t, err)

	require.Len(t, ingredients, 3)
	for i, ing := range ingredients {
		assert.Equal(t, i, ing.OrderIndex)
	}
	assert.Equal(t, "tomatoes", ingredients[0].Name)

	require.Len(t, steps, 2)
	assert.Equal(t, 1, steps[0].StepNumber)
	assert.Equal(t, 2, steps[1].StepNumber)
}

func TestDeleteRecipeRemovesChildren(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx,
		&models.Recipe{UserID: user.ID, Title: "Soup"},
		[]models.RecipeIngredient{{Name: "tomatoes"}},
		[]models.RecipeStep{{Instruction: "Roast."}},
	)
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.RecipeImage{RecipeID: recipe.ID, ImageURL: "https://x/a.png"}).Error)

	require.NoError(t, svc.DeleteRecipe(ctx, recipe.ID))

	for _, count := range []struct {
		name  string
		model interface{}
	}{
		{"ingredients", &models.RecipeIngredient{}},
		{"steps", &models.RecipeStep{}},
		{"images", &models.RecipeImage{}},
	} {
		var n int64
		require.NoError(t, db.Model(count.model).Where("recipe_id = ?", recipe.ID).Count(&n).Error)
		assert.Equal(t, int64(0), n, "%s should be removed with the recipe", count.name)
	}

	_, err = svc.GetRecipe(ctx, recipe.ID)
	assert.Error(t, err)
}

func TestListRecipesExcludesArchived(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	keep, err := svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Keep"}, nil, nil)
	require.NoError(t, err)
	old, err := svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Old"}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, svc.SetArchived(ctx, old.ID, true))

	recipes, err := svc.ListRecipes(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, keep.ID, recipes[0].ID)

	recipes, err = svc.ListRecipes(ctx, user.ID, true)
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}

func TestSearchRecipesMatchesTitleAndDescription(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	_, err := svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Tomato Soup"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Bread", Description: "Goes well with tomato soup"}, nil, nil)
	require.NoError(t, err)
	_, err = svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Pancakes"}, nil, nil)
	require.NoError(t, err)

	results, err := svc.SearchRecipes(ctx, user.ID, "tomato")
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = svc.SearchRecipes(ctx, user.ID, "pancake")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Pancakes", results[0].Title)
}

func TestSetFavorite(t *testing.T) {
	db := testhelpers.SetupSQLiteDatabase(t)
	user := createTestUser(t, db, "Alice", "alice@example.com")
	svc := service.NewRecipeService(db)
	ctx := context.Background()

	recipe, err := svc.CreateRecipe(ctx, &models.Recipe{UserID: user.ID, Title: "Soup"}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, svc.SetFavorite(ctx, recipe.ID, true))
	got, err := svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.True(t, got.Favorite)

	require.NoError(t, svc.SetFavorite(ctx, recipe.ID, false))
	got, err = svc.GetRecipe(ctx, recipe.ID)
	require.NoError(t, err)
	assert.False(t, got.Favorite)
}
