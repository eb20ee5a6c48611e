package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/types"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	tagService    *service.TagService
	authService   *service.AuthService
}

func NewRecipeHandler(recipeService *service.RecipeService, tagService *service.TagService, authService *service.AuthService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		tagService:    tagService,
		authService:   authService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes", middleware.AuthMiddleware(h.authService))
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", h.CreateRecipe)
		recipes.PATCH("/:id", h.UpdateRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)
		recipes.POST("/:id/favorite", h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", h.UnfavoriteRecipe)
		recipes.POST("/:id/archive", h.ArchiveRecipe)
		recipes.DELETE("/:id/archive", h.UnarchiveRecipe)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if search := c.Query("q"); search != "" {
		recipes, err := h.recipeService.SearchRecipes(c.Request.Context(), userID, search)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search recipes"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"recipes": recipes})
		return
	}

	includeArchived := c.Query("archived") == "true"
	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID, includeArchived)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	recipe, ingredients, steps, images, err := h.recipeService.GetRecipeDetails(c.Request.Context(), id)
	if err != nil || recipe.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"recipe":      recipe,
		"ingredients": ingredients,
		"steps":       steps,
		"images":      images,
	})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := models.Recipe{
		UserID:           userID,
		Title:            req.Title,
		Description:      req.Description,
		Servings:         req.Servings,
		PrepMinutes:      req.PrepMinutes,
		CookMinutes:      req.CookMinutes,
		TotalMinutes:     req.TotalMinutes,
		Difficulty:       req.Difficulty,
		Category:         req.Category,
		Source:           req.Source,
		SourceType:       req.SourceType,
		Notes:            req.Notes,
		OriginalImageURL: req.OriginalImageURL,
	}
	if recipe.SourceType == "" {
		recipe.SourceType = "manual"
	}
	if recipe.TotalMinutes == 0 {
		recipe.TotalMinutes = req.PrepMinutes + req.CookMinutes
	}

	ingredients := make([]models.RecipeIngredient, len(req.Ingredients))
	for i, ing := range req.Ingredients {
		ingredients[i] = models.RecipeIngredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Notes:    ing.Notes,
		}
	}
	steps := make([]models.RecipeStep, len(req.Steps))
	for i, st := range req.Steps {
		steps[i] = models.RecipeStep{
			Instruction:  st.Instruction,
			ImageURL:     st.ImageURL,
			TimerMinutes: st.TimerMinutes,
		}
	}

	created, err := h.recipeService.CreateRecipe(c.Request.Context(), &recipe, ingredients, steps)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create recipe"})
		return
	}

	for _, name := range req.Tags {
		if _, err := h.tagService.TagRecipe(c.Request.Context(), userID, created.ID, name); err != nil {
			log.Printf("[RecipeHandler] Failed to tag recipe with %q: %v", name, err)
		}
	}

	c.JSON(http.StatusCreated, created)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil || recipe.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Description != nil {
		recipe.Description = *req.Description
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.PrepMinutes != nil {
		recipe.PrepMinutes = *req.PrepMinutes
	}
	if req.CookMinutes != nil {
		recipe.CookMinutes = *req.CookMinutes
	}
	if req.TotalMinutes != nil {
		recipe.TotalMinutes = *req.TotalMinutes
	}
	if req.Difficulty != nil {
		recipe.Difficulty = *req.Difficulty
	}
	if req.Category != nil {
		recipe.Category = *req.Category
	}
	if req.Notes != nil {
		recipe.Notes = *req.Notes
	}
	if req.Favorite != nil {
		recipe.Favorite = *req.Favorite
	}
	if req.Archived != nil {
		recipe.Archived = *req.Archived
	}
	recipe.Embedding = service.GenerateEmbedding(recipe.Title + " " + recipe.Description)

	if err := h.recipeService.UpdateRecipe(c.Request.Context(), recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil || recipe.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.setFlag(c, "favorite", true)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.setFlag(c, "favorite", false)
}

func (h *RecipeHandler) ArchiveRecipe(c *gin.Context) {
	h.setFlag(c, "archived", true)
}

func (h *RecipeHandler) UnarchiveRecipe(c *gin.Context) {
	h.setFlag(c, "archived", false)
}

func (h *RecipeHandler) setFlag(c *gin.Context, flag string, value bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), id)
	if err != nil || recipe.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	switch flag {
	case "favorite":
		err = h.recipeService.SetFavorite(c.Request.Context(), id, value)
	case "archived":
		err = h.recipeService.SetArchived(c.Request.Context(), id, value)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}
