package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/forkful/forkful-backend/internal/middleware"
	"github.com/forkful/forkful-backend/internal/service"
)

// maxArchiveSize bounds uploaded backup archives (64 MiB).
const maxArchiveSize = 64 << 20

// importLockTTL bounds how long a stuck import can block the next one.
const importLockTTL = 15 * time.Minute

type BackupHandler struct {
	backupService service.IBackupService
	redis         *redis.Client
	authService   *service.AuthService
}

func NewBackupHandler(backupService service.IBackupService, redisClient *redis.Client, authService *service.AuthService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
		redis:         redisClient,
		authService:   authService,
	}
}

func (h *BackupHandler) RegisterRoutes(router *gin.RouterGroup) {
	backup := router.Group("/backup", middleware.AuthMiddleware(h.authService))
	{
		backup.POST("/export", h.Export)
		if h.redis != nil {
			limiter := middleware.NewImportRateLimiter(h.redis)
			backup.POST("/import", limiter.RateLimitMiddleware(), h.Import)
		} else {
			backup.POST("/import", h.Import)
		}
		backup.GET("/progress", h.Progress)
	}
}

// Export streams the user's backup archive as a download. The archive is
// buffered so a failed export never produces a partial file.
func (h *BackupHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	err := h.backupService.Export(c.Request.Context(), userID, &buf, h.progressFunc(c, userID, "export"))
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		log.Printf("[BackupHandler] Export failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export backup"})
		return
	}

	filename := fmt.Sprintf("forkful-backup-%s.zip", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// Import restores an uploaded backup archive into the caller's account.
// Concurrent imports by the same user are serialized with a Redis lock so
// the tag merge step never races with itself.
func (h *BackupHandler) Import(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("archive")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archive file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxArchiveSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read archive"})
		return
	}
	if len(data) > maxArchiveSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "archive too large"})
		return
	}

	if h.redis != nil {
		lockKey := fmt.Sprintf("backup:import_lock:%s", userID)
		acquired, err := h.redis.SetNX(c.Request.Context(), lockKey, time.Now().Unix(), importLockTTL).Result()
		if err == nil && !acquired {
			c.JSON(http.StatusConflict, gin.H{"error": "an import is already running"})
			return
		}
		if err != nil {
			// Redis being down degrades to an unserialized import
			log.Printf("[BackupHandler] Import lock unavailable: %v", err)
		} else {
			defer h.releaseImportLock(lockKey)
		}
	}

	err = h.backupService.Import(c.Request.Context(), userID, bytes.NewReader(data), int64(len(data)), h.progressFunc(c, userID, "import"))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedBackupVersion) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[BackupHandler] Import failed for user %s: %v", userID, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to import backup"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "imported"})
}

// releaseImportLock deletes the per-user import lock. It runs on a fresh
// context because the request context is already canceled when the client
// disconnected mid-import, and the lock must not stay held until its TTL.
func (h *BackupHandler) releaseImportLock(lockKey string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.redis.Del(ctx, lockKey).Err(); err != nil {
		log.Printf("[BackupHandler] Failed to release import lock: %v", err)
	}
}

// Progress reports the latest progress of the user's running export or
// import, mirrored through Redis.
func (h *BackupHandler) Progress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	if h.redis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress available"})
		return
	}

	val, err := h.redis.Get(c.Request.Context(), progressKey(userID)).Result()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no progress available"})
		return
	}

	c.Data(http.StatusOK, "application/json", []byte(val))
}

func progressKey(userID uuid.UUID) string {
	return fmt.Sprintf("backup:progress:%s", userID)
}

// progressFunc mirrors progress callbacks into Redis so a polling client
// can render a progress bar while the request is still running.
func (h *BackupHandler) progressFunc(c *gin.Context, userID uuid.UUID, operation string) service.ProgressFunc {
	return func(message string, percent int) {
		if h.redis == nil {
			return
		}
		payload, err := json.Marshal(gin.H{
			"operation": operation,
			"message":   message,
			"percent":   percent,
		})
		if err != nil {
			return
		}
		if err := h.redis.Set(c.Request.Context(), progressKey(userID), payload, 10*time.Minute).Err(); err != nil {
			log.Printf("[BackupHandler] Failed to record progress: %v", err)
		}
	}
}
