package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	started time.Time
	version string
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		started: time.Now(),
		version: version,
	}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
	})
}

// Readyz handles GET /readyz. The service keeps no connections open between
// requests, so readiness follows liveness.
func (h *HealthHandler) Readyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
