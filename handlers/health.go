package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldops/services/reservation"
)

// HealthHandler reports process liveness plus hold-cache reachability. A
// degraded cache is not fatal: availability falls back to durable rows.
type HealthHandler struct {
	HoldCache *reservation.HoldCache
}

func NewHealthHandler(cache *reservation.HoldCache) *HealthHandler {
	return &HealthHandler{HoldCache: cache}
}

func (h *HealthHandler) HealthHandler(c *gin.Context) {
	cacheStatus := "ok"
	if h.HoldCache != nil && !h.HoldCache.Healthy(c.Request.Context()) {
		cacheStatus = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"holdCache": cacheStatus,
	})
}
