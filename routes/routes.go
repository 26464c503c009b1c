package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"fieldops/handlers"
)

// RegisterBookingRoutes sets up availability, reservation and job endpoints.
// Everything is scoped to a business.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	biz := r.Group("/api/businesses/:businessId")
	{
		biz.GET("/availability", hb.GetAvailability)

		biz.POST("/reservations", hb.ReserveSlot)
		biz.GET("/reservations/:token", hb.ValidateReservation)

		biz.POST("/jobs", hb.CreateJob)
		biz.POST("/jobs/emergency", hb.CreateEmergencyJob)
		biz.GET("/jobs", hb.ListJobs)
		biz.GET("/jobs/code/:code", hb.GetJobByCode)
		biz.GET("/jobs/:jobId", hb.GetJob)
		biz.POST("/jobs/:jobId/assign", hb.AssignTechnician)
		biz.PATCH("/jobs/:jobId/status", hb.UpdateJobStatus)
		biz.POST("/jobs/:jobId/notes", hb.AddJobNote)
		biz.GET("/jobs/:jobId/notes", hb.GetJobNotes)
		biz.POST("/jobs/:jobId/photos", hb.AddJobPhoto)
		biz.GET("/jobs/:jobId/photos", hb.GetJobPhotos)
		biz.GET("/jobs/:jobId/history", hb.GetJobHistory)
	}
}

// RegisterHealthRoute registers the health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Health != nil {
		r.GET("/health", hb.Health)
		return
	}
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r, hb)
	RegisterBookingRoutes(r, hb)
}
