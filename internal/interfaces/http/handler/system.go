package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gestium/backend/internal/infrastructure/logger"
	"github.com/gestium/backend/internal/infrastructure/persistence"
)

// SystemHandler handles health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db      *persistence.Database
	version string
	started time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, version string) *SystemHandler {
	return &SystemHandler{db: db, version: version, started: time.Now()}
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health reports service and database health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Version:  h.version,
		Uptime:   time.Since(h.started).Round(time.Second).String(),
		Database: "ok",
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
