package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct for route
// registration.
type HandlerBundle struct {
	// Health endpoint.
	Health gin.HandlerFunc

	// Availability endpoints.
	GetAvailability gin.HandlerFunc

	// Reservation endpoints.
	ReserveSlot         gin.HandlerFunc
	ValidateReservation gin.HandlerFunc

	// Job endpoints.
	CreateJob          gin.HandlerFunc
	CreateEmergencyJob gin.HandlerFunc
	AssignTechnician   gin.HandlerFunc
	UpdateJobStatus    gin.HandlerFunc
	AddJobNote         gin.HandlerFunc
	AddJobPhoto        gin.HandlerFunc
	GetJobNotes        gin.HandlerFunc
	GetJobPhotos       gin.HandlerFunc
	GetJob             gin.HandlerFunc
	GetJobByCode       gin.HandlerFunc
	ListJobs           gin.HandlerFunc
	GetJobHistory      gin.HandlerFunc
}
