package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/types"
)

// ScanHandler fronts the AI recipe extraction service. Scans are billed
// against the user's credits balance before the extractor is called.
type ScanHandler struct {
	extractor      service.RecipeExtractor
	creditsService service.ICreditsService
	redis          *redis.Client
	cfg            *config.Config
	authService    *service.AuthService
}

func NewScanHandler(extractor service.RecipeExtractor, creditsService service.ICreditsService, redisClient *redis.Client, cfg *config.Config, authService *service.AuthService) *ScanHandler {
	return &ScanHandler{
		extractor:      extractor,
		creditsService: creditsService,
		redis:          redisClient,
		cfg:            cfg,
		authService:    authService,
	}
}

func (h *ScanHandler) RegisterRoutes(router *gin.RouterGroup) {
	scan := router.Group("/scan", middleware.AuthMiddleware(h.authService))
	if h.redis != nil {
		limiter := middleware.NewScanRateLimiter(h.redis)
		scan.Use(limiter.RateLimitMiddleware())
	}
	scan.POST("", h.ScanRecipe)
}

func (h *ScanHandler) ScanRecipe(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.extractor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recipe scanning is not configured"})
		return
	}

	var req types.ScanRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	source := req.Text
	switch req.SourceType {
	case "scan":
		source = req.ImageURL
	case "url":
		source = req.URL
	}
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "scan source is required"})
		return
	}

	cost := h.cfg.ScanCreditCost
	if err := h.creditsService.Consume(c.Request.Context(), userID, cost, "scan"); err != nil {
		if errors.Is(err, service.ErrInsufficientCredits) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient credits"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to charge credits"})
		return
	}

	draft, err := h.extractor.Extract(c.Request.Context(), req.SourceType, source)
	if err != nil {
		// The scan never happened, give the credit back
		if refundErr := h.creditsService.Grant(c.Request.Context(), userID, cost, "refund", ""); refundErr != nil {
			log.Printf("[ScanHandler] Failed to refund scan credit for user %s: %v", userID, refundErr)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to extract recipe"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}
