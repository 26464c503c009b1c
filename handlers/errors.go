package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldops/services/availability"
	"fieldops/services/job"
	"fieldops/services/reservation"
	"fieldops/utils"
)

// respondError translates the service error taxonomy into HTTP statuses.
// Anything unrecognized is a 500 with a generic body; the real error goes to
// the log, not the client.
func respondError(c *gin.Context, err error) {
	var availErr *availability.ValidationError
	var jobValErr *job.ValidationError
	var transErr *job.InvalidTransitionError

	switch {
	case errors.As(err, &availErr), errors.As(err, &jobValErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &transErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrSlotUnavailable), errors.Is(err, job.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrNotFound), errors.Is(err, job.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error("request failed", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error",
			"An unexpected error occurred. Please try again later.")
	}
}
