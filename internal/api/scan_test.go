package api_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/mocks"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

func newScanTestRouter(t *testing.T, extractor service.RecipeExtractor) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDatabase(t)
	authService := service.NewAuthService(db, "test-secret")
	creditsService := service.NewCreditsService(db)
	cfg := &config.Config{ScanCreditCost: 1}

	token, err := authService.Register("Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	router := gin.New()
	api.NewScanHandler(extractor, creditsService, nil, cfg, authService).RegisterRoutes(router.Group("/api/v1"))
	return router, db, token
}

func doScan(t *testing.T, router *gin.Engine, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/scan", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanChargesOneCredit(t *testing.T) {
	extractor := &mocks.MockRecipeExtractor{Draft: &service.RecipeDraft{Title: "Tomato Soup"}}
	router, db, token := newScanTestRouter(t, extractor)

	w := doScan(t, router, token, gin.H{"source_type": "text", "text": "tomato soup recipe..."})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Draft service.RecipeDraft `json:"draft"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Tomato Soup", resp.Draft.Title)
	require.Len(t, extractor.Calls, 1)
	assert.Equal(t, "text", extractor.Calls[0][0])

	var profile models.UserProfile
	require.NoError(t, db.First(&profile).Error)
	assert.Equal(t, 2, profile.Credits, "signup grants 3, one scan costs 1")
}

func TestScanWithNoCreditsIs402(t *testing.T) {
	extractor := &mocks.MockRecipeExtractor{Draft: &service.RecipeDraft{Title: "Soup"}}
	router, db, token := newScanTestRouter(t, extractor)

	require.NoError(t, db.Model(&models.UserProfile{}).Where("1 = 1").Update("credits", 0).Error)

	w := doScan(t, router, token, gin.H{"source_type": "text", "text": "anything"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Empty(t, extractor.Calls, "the extractor is never called without payment")
}

func TestScanFailureRefundsCredit(t *testing.T) {
	extractor := &mocks.MockRecipeExtractor{Err: errors.New("model timeout")}
	router, db, token := newScanTestRouter(t, extractor)

	w := doScan(t, router, token, gin.H{"source_type": "text", "text": "anything"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var profile models.UserProfile
	require.NoError(t, db.First(&profile).Error)
	assert.Equal(t, 3, profile.Credits, "failed scans are refunded")

	// The ledger shows the charge and the refund.
	var entries []models.CreditTransaction
	require.NoError(t, db.Order("created_at").Find(&entries).Error)
	reasons := make([]string, 0, len(entries))
	for _, e := range entries {
		reasons = append(reasons, e.Reason)
	}
	assert.Contains(t, reasons, "scan")
	assert.Contains(t, reasons, "refund")
}

func TestScanValidatesSource(t *testing.T) {
	extractor := &mocks.MockRecipeExtractor{Draft: &service.RecipeDraft{Title: "Soup"}}
	router, _, token := newScanTestRouter(t, extractor)

	// source_type is required
	w := doScan(t, router, token, gin.H{"text": "anything"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// matching source field must be set
	w = doScan(t, router, token, gin.H{"source_type": "url"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
