package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

// cancelingBackupService cancels the request context before returning,
// the same state a handler sees when the client disconnects mid-import.
type cancelingBackupService struct {
	cancel context.CancelFunc
}

func (s *cancelingBackupService) Export(ctx context.Context, userID uuid.UUID, w io.Writer, progress service.ProgressFunc) error {
	return nil
}

func (s *cancelingBackupService) Import(ctx context.Context, userID uuid.UUID, archive io.ReaderAt, size int64, progress service.ProgressFunc) error {
	s.cancel()
	return nil
}

func TestImportLockReleasedAfterClientDisconnect(t *testing.T) {
	redisClient := testhelpers.SetupTestRedis(t)
	db := testhelpers.SetupSQLiteDatabase(t)
	gin.SetMode(gin.TestMode)

	authService := service.NewAuthService(db, "test-secret")
	token, err := authService.Register("Alice", "alice@example.com", "password123")
	require.NoError(t, err)
	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	router := gin.New()
	handler := NewBackupHandler(&cancelingBackupService{cancel: cancel}, redisClient, authService)
	handler.RegisterRoutes(router.Group("/api/v1"))

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	f, err := zw.Create("backup.json")
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(f).Encode(map[string]any{"version": service.BackupFormatVersion}))
	require.NoError(t, zw.Close())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("archive", "backup.zip")
	require.NoError(t, err)
	_, err = part.Write(archive.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/backup/import", &body).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	lockKey := fmt.Sprintf("backup:import_lock:%s", claims.UserID)
	held, err := redisClient.Exists(context.Background(), lockKey).Result()
	require.NoError(t, err)
	assert.Zero(t, held, "import lock must not outlive the request")
}
