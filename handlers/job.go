package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jobRepo "fieldops/database/repository/job"
	"fieldops/models"
	"fieldops/services/job"
)

// JobHandler exposes the job lifecycle: creation, assignment, status moves
// and the audit surfaces.
type JobHandler struct {
	Mgr    job.Manager
	Logger *zap.Logger
}

func NewJobHandler(mgr job.Manager, logger *zap.Logger) *JobHandler {
	return &JobHandler{Mgr: mgr, Logger: logger}
}

type actorInput struct {
	ActorType string `json:"actorType"`
	ActorID   string `json:"actorId"`
}

func (a actorInput) actor() job.Actor {
	t := a.ActorType
	if t == "" {
		t = "admin"
	}
	return job.Actor{Type: t, ID: a.ActorID}
}

// CreateJobHandler opens a job, optionally consuming a reservation token for
// its slot.
func (h *JobHandler) CreateJobHandler(c *gin.Context) {
	businessID := c.Param("businessId")

	var input struct {
		CustomerID   string `json:"customerId" binding:"required"`
		AddressID    string `json:"addressId"`
		ServiceType  string `json:"serviceType" binding:"required"`
		Description  string `json:"description"`
		Priority     string `json:"priority"`
		Source       string `json:"source"`
		SourceCallID string `json:"sourceCallId"`

		ReservationToken string `json:"reservationToken"`
		ScheduledDate    string `json:"scheduledDate"`
		ScheduledStart   int    `json:"scheduledTimeStart"`
		ScheduledEnd     int    `json:"scheduledTimeEnd"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Mgr.Create(c.Request.Context(), businessID, job.CreateInput{
		CustomerID:   input.CustomerID,
		AddressID:    input.AddressID,
		ServiceType:  input.ServiceType,
		Description:  input.Description,
		Priority:     models.JobPriority(input.Priority),
		Source:       models.JobSource(input.Source),
		SourceCallID: input.SourceCallID,

		ReservationToken: input.ReservationToken,
		ScheduledDate:    input.ScheduledDate,
		ScheduledStart:   input.ScheduledStart,
		ScheduledEnd:     input.ScheduledEnd,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// CreateEmergencyJobHandler opens a job straight into DISPATCHED with a
// technician attached.
func (h *JobHandler) CreateEmergencyJobHandler(c *gin.Context) {
	businessID := c.Param("businessId")

	var input struct {
		CustomerID   string `json:"customerId" binding:"required"`
		AddressID    string `json:"addressId"`
		ServiceType  string `json:"serviceType" binding:"required"`
		Description  string `json:"description"`
		TechnicianID string `json:"technicianId" binding:"required"`
		SourceCallID string `json:"sourceCallId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	created, err := h.Mgr.CreateEmergency(c.Request.Context(), businessID, job.EmergencyInput{
		CustomerID:   input.CustomerID,
		AddressID:    input.AddressID,
		ServiceType:  input.ServiceType,
		Description:  input.Description,
		TechnicianID: input.TechnicianID,
		SourceCallID: input.SourceCallID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// AssignTechnicianHandler puts a technician on a job.
func (h *JobHandler) AssignTechnicianHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	var input struct {
		TechnicianID string `json:"technicianId" binding:"required"`
		actorInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Mgr.AssignTechnician(c.Request.Context(), businessID, jobID, input.TechnicianID, input.actor())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// UpdateJobStatusHandler moves a job along its lifecycle.
func (h *JobHandler) UpdateJobStatusHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	var input struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
		actorInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	updated, err := h.Mgr.UpdateStatus(c.Request.Context(), businessID, jobID, models.JobStatus(input.Status), input.Reason, input.actor())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// AddJobNoteHandler appends a note to a job.
func (h *JobHandler) AddJobNoteHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	var input struct {
		Content    string `json:"content" binding:"required"`
		AuthorName string `json:"authorName"`
		actorInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	note, err := h.Mgr.AddNote(c.Request.Context(), businessID, jobID, input.Content, input.actor(), input.AuthorName)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

// AddJobPhotoHandler attaches a photo record to a job.
func (h *JobHandler) AddJobPhotoHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	var input struct {
		URL       string `json:"url" binding:"required"`
		Caption   string `json:"caption"`
		PhotoType string `json:"photoType"`
		actorInput
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	photo, err := h.Mgr.AddPhoto(c.Request.Context(), businessID, jobID, input.URL, input.Caption, input.PhotoType, input.actor())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, photo)
}

// GetJobNotesHandler lists a job's notes.
func (h *JobHandler) GetJobNotesHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	notes, err := h.Mgr.GetNotes(c.Request.Context(), businessID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// GetJobPhotosHandler lists a job's photo records.
func (h *JobHandler) GetJobPhotosHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	photos, err := h.Mgr.GetPhotos(c.Request.Context(), businessID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// GetJobHandler returns a job by id.
func (h *JobHandler) GetJobHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	found, err := h.Mgr.GetByID(c.Request.Context(), businessID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// GetJobByCodeHandler resolves a job by its customer-facing confirmation
// code.
func (h *JobHandler) GetJobByCodeHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	code := c.Param("code")

	found, err := h.Mgr.GetByConfirmationCode(c.Request.Context(), businessID, code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

// ListJobsHandler lists jobs with optional filters and pagination.
// Query params: status, start_date, end_date, technician_id, customer_id,
// page, page_size.
func (h *JobHandler) ListJobsHandler(c *gin.Context) {
	businessID := c.Param("businessId")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filter := jobRepo.ListFilter{
		Status:       models.JobStatus(c.Query("status")),
		DateFrom:     c.Query("start_date"),
		DateTo:       c.Query("end_date"),
		TechnicianID: c.Query("technician_id"),
		CustomerID:   c.Query("customer_id"),
		Page:         page,
		PageSize:     pageSize,
	}

	jobs, total, err := h.Mgr.List(c.Request.Context(), businessID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobs":     jobs,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// GetJobHistoryHandler returns the status audit trail for a job.
func (h *JobHandler) GetJobHistoryHandler(c *gin.Context) {
	businessID := c.Param("businessId")
	jobID := c.Param("jobId")

	history, err := h.Mgr.GetHistory(c.Request.Context(), businessID, jobID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}
