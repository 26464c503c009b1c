package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldops/services/reservation"
)

// ReservationHandler exposes slot holds: reserve a slot for a short window,
// then hand the token to job creation.
type ReservationHandler struct {
	Mgr    reservation.Manager
	Logger *zap.Logger
}

func NewReservationHandler(mgr reservation.Manager, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Mgr: mgr, Logger: logger}
}

// ReserveSlotHandler places a short-lived hold on a slot.
func (h *ReservationHandler) ReserveSlotHandler(c *gin.Context) {
	businessID := c.Param("businessId")

	var input struct {
		CustomerID string `json:"customerId" binding:"required"`
		Date       string `json:"date" binding:"required"`
		StartTime  int    `json:"startTime"`
		EndTime    int    `json:"endTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	hold, err := h.Mgr.Reserve(c.Request.Context(), businessID, input.CustomerID, input.Date, input.StartTime, input.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reservationToken": hold.Token,
		"date":             hold.SlotDate,
		"startTime":        hold.SlotStart,
		"endTime":          hold.SlotEnd,
		"expiresAt":        hold.ExpiresAt,
	})
}

// ValidateReservationHandler reports whether a hold token is still active.
func (h *ReservationHandler) ValidateReservationHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	token := c.Param("token")

	hold, err := h.Mgr.Validate(c.Request.Context(), businessID, token)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":     true,
		"date":      hold.SlotDate,
		"startTime": hold.SlotStart,
		"endTime":   hold.SlotEnd,
		"expiresAt": hold.ExpiresAt,
	})
}
