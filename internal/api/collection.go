package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/types"
)

type CollectionHandler struct {
	collectionService *service.CollectionService
	authService       *service.AuthService
}

func NewCollectionHandler(collectionService *service.CollectionService, authService *service.AuthService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		authService:       authService,
	}
}

func (h *CollectionHandler) RegisterRoutes(router *gin.RouterGroup) {
	collections := router.Group("/collections", middleware.AuthMiddleware(h.authService))
	{
		collections.GET("", h.ListCollections)
		collections.POST("", h.CreateCollection)
		collections.DELETE("/:id", h.DeleteCollection)
		collections.GET("/:id/recipes", h.ListRecipes)
		collections.POST("/:id/recipes/:recipeID", h.AddRecipe)
		collections.DELETE("/:id/recipes/:recipeID", h.RemoveRecipe)
	}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	collections, err := h.collectionService.ListCollections(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collections"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collections": collections})
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	collection, err := h.collectionService.CreateCollection(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create collection"})
		return
	}

	c.JSON(http.StatusCreated, collection)
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.collectionService.DeleteCollection(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotCollectionOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete collection"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) ListRecipes(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	collections, err := h.collectionService.ListCollections(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch collection"})
		return
	}
	owned := false
	for _, col := range collections {
		if col.ID == id {
			owned = true
			break
		}
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	recipes, err := h.collectionService.ListRecipes(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recipes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

func (h *CollectionHandler) AddRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := pathUUID(c, "recipeID")
	if !ok {
		return
	}

	if err := h.collectionService.AddRecipe(c.Request.Context(), userID, id, recipeID); err != nil {
		if errors.Is(err, service.ErrNotCollectionOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add recipe to collection"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CollectionHandler) RemoveRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	recipeID, ok := pathUUID(c, "recipeID")
	if !ok {
		return
	}

	if err := h.collectionService.RemoveRecipe(c.Request.Context(), userID, id, recipeID); err != nil {
		if errors.Is(err, service.ErrNotCollectionOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove recipe from collection"})
		return
	}

	c.Status(http.StatusNoContent)
}
