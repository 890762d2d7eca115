package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"radiology-app-server/internal/config"
	"radiology-app-server/internal/store"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler reports store connectivity. On failure the response carries
// the connection string truncated and with the password redacted.
type HealthHandler struct {
	DB    *gorm.DB
	Users store.UserStore
	Cfg   *config.Config
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, users store.UserStore, cfg *config.Config) *HealthHandler {
	return &HealthHandler{DB: db, Users: users, Cfg: cfg}
}

// Health verifies database connectivity and reports the user count.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	sqlDB, err := h.DB.DB()
	if err != nil {
		h.unhealthy(c, "Database handle unavailable: "+err.Error())
		return
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		h.unhealthy(c, "Database ping failed: "+err.Error())
		return
	}

	userCount, err := h.Users.Count(ctx)
	if err != nil {
		h.unhealthy(c, "User count failed: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "All systems operational",
		"database": gin.H{
			"connected":  true,
			"name":       h.Cfg.Database.Name,
			"user_count": userCount,
		},
	})
}

func (h *HealthHandler) unhealthy(c *gin.Context, message string) {
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"status":   "error",
		"message":  message,
		"database": h.Cfg.TruncatedDSN(),
	})
}
