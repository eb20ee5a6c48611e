package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/types"
)

type TagHandler struct {
	tagService  *service.TagService
	authService *service.AuthService
}

func NewTagHandler(tagService *service.TagService, authService *service.AuthService) *TagHandler {
	return &TagHandler{
		tagService:  tagService,
		authService: authService,
	}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags", middleware.AuthMiddleware(h.authService))
	{
		tags.GET("", h.ListTags)
		tags.POST("", h.CreateTag)
		tags.DELETE("/:id", h.DeleteTag)
	}

	recipeTags := router.Group("/recipes/:id/tags", middleware.AuthMiddleware(h.authService))
	{
		recipeTags.POST("", h.TagRecipe)
		recipeTags.DELETE("/:tagID", h.UntagRecipe)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	tags, err := h.tagService.ListTags(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tags"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

func (h *TagHandler) CreateTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.GetOrCreateTag(c.Request.Context(), userID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tag"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) DeleteTag(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.DeleteTag(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, service.ErrNotTagOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete tag"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TagHandler) TagRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req types.CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag, err := h.tagService.TagRecipe(c.Request.Context(), userID, recipeID, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrNotTagOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to tag recipe"})
		return
	}

	c.JSON(http.StatusCreated, tag)
}

func (h *TagHandler) UntagRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	recipeID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	tagID, ok := pathUUID(c, "tagID")
	if !ok {
		return
	}

	if err := h.tagService.UntagRecipe(c.Request.Context(), userID, recipeID, tagID); err != nil {
		if errors.Is(err, service.ErrNotTagOwner) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to untag recipe"})
		return
	}

	c.Status(http.StatusNoContent)
}
