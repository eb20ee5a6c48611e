package api_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/mocks"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

func newBackupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB, *service.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLiteDatabase(t)
	authService := service.NewAuthService(db, "test-secret")
	backupService := service.NewBackupService(db, mocks.NewMockBlobStore())

	router := gin.New()
	handler := api.NewBackupHandler(backupService, nil, authService)
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, db, authService
}

func registerAndLogin(t *testing.T, authService *service.AuthService, name, email string) string {
	t.Helper()
	token, err := authService.Register(name, email, "password123")
	require.NoError(t, err)
	return token
}

func doExport(t *testing.T, router *gin.Engine, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/export", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doImport(t *testing.T, router *gin.Engine, token string, archive []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("archive", "backup.zip")
	require.NoError(t, err)
	_, err = part.Write(archive)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/import", &body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestBackupEndpointsRequireAuth(t *testing.T) {
	router, _, _ := newBackupTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/api/v1/backup/export"},
		{http.MethodPost, "/api/v1/backup/import"},
		{http.MethodGet, "/api/v1/backup/progress"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
}

func TestExportProducesDownloadableArchive(t *testing.T) {
	router, db, authService := newBackupTestRouter(t)
	token := registerAndLogin(t, authService, "Alice", "alice@example.com")

	var user models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&user).Error)
	require.NoError(t, db.Create(&models.Recipe{UserID: user.ID, Title: "Soup"}).Error)

	w := doExport(t, router, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zip", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "forkful-backup-")

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	require.NoError(t, err)

	var manifestFound bool
	for _, f := range zr.File {
		if f.Name == "backup.json" {
			manifestFound = true
			rc, err := f.Open()
			require.NoError(t, err)
			var manifest service.BackupManifest
			require.NoError(t, json.NewDecoder(rc).Decode(&manifest))
			rc.Close()
			assert.Equal(t, service.BackupFormatVersion, manifest.Version)
			require.Len(t, manifest.Recipes, 1)
			assert.Equal(t, "Soup", manifest.Recipes[0].Title)
		}
	}
	assert.True(t, manifestFound, "archive must contain backup.json")
}

func TestExportWithoutProfileIs404(t *testing.T) {
	router, db, authService := newBackupTestRouter(t)
	token := registerAndLogin(t, authService, "Alice", "alice@example.com")

	require.NoError(t, db.Where("display_name = ?", "Alice").Delete(&models.UserProfile{}).Error)

	w := doExport(t, router, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportRoundTripViaHTTP(t *testing.T) {
	router, db, authService := newBackupTestRouter(t)
	aliceToken := registerAndLogin(t, authService, "Alice", "alice@example.com")
	bobToken := registerAndLogin(t, authService, "Bob", "bob@example.com")

	var alice models.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&alice).Error)
	require.NoError(t, db.Create(&models.Recipe{UserID: alice.ID, Title: "Soup"}).Error)

	export := doExport(t, router, aliceToken)
	require.Equal(t, http.StatusOK, export.Code)

	w := doImport(t, router, bobToken, export.Body.Bytes())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var bob models.User
	require.NoError(t, db.Where("email = ?", "bob@example.com").First(&bob).Error)
	var count int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("user_id = ?", bob.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestImportRejectsUnknownVersionWith422(t *testing.T) {
	router, _, authService := newBackupTestRouter(t)
	token := registerAndLogin(t, authService, "Alice", "alice@example.com")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("backup.json")
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(f).Encode(map[string]any{"version": 99}))
	require.NoError(t, zw.Close())

	w := doImport(t, router, token, buf.Bytes())
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestImportRequiresArchiveFile(t *testing.T) {
	router, _, authService := newBackupTestRouter(t)
	token := registerAndLogin(t, authService, "Alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/import", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportOfGarbageArchiveIs400(t *testing.T) {
	router, _, authService := newBackupTestRouter(t)
	token := registerAndLogin(t, authService, "Alice", "alice@example.com")

	w := doImport(t, router, token, []byte("this is not a zip"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
