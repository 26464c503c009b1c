package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldops/services/availability"
)

// AvailabilityHandler exposes the availability calculator.
type AvailabilityHandler struct {
	Svc    availability.Service
	Logger *zap.Logger
}

func NewAvailabilityHandler(svc availability.Service, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Logger: logger}
}

// GetAvailabilityHandler returns day-by-day open windows for a date range.
// Query params: start_date, end_date ("2006-01-02", end defaults to start),
// technician_id, service_type.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	businessID := c.Param("businessId")

	req := availability.Request{
		DateFrom:     c.Query("start_date"),
		DateTo:       c.Query("end_date"),
		ServiceType:  c.Query("service_type"),
		TechnicianID: c.Query("technician_id"),
	}
	if req.DateTo == "" {
		req.DateTo = req.DateFrom
	}

	days, err := h.Svc.GetAvailability(c.Request.Context(), businessID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"businessId": businessID,
		"days":       days,
	})
}
