package job

import (
	"context"

	jobRepo "fieldops/database/repository/job"
	"fieldops/models"
)

// CreateInput carries everything needed to open a job. Either a reservation
// token or explicit schedule fields source the slot; both may be absent for
// an unscheduled request.
type CreateInput struct {
	CustomerID   string
	AddressID    string
	ServiceType  string
	Description  string
	Priority     models.JobPriority
	Source       models.JobSource
	SourceCallID string

	ReservationToken string
	ScheduledDate    string // "2006-01-02"
	ScheduledStart   int    // minutes from midnight
	ScheduledEnd     int
}

// EmergencyInput creates a job straight into DISPATCHED with a technician
// pre-assigned.
type EmergencyInput struct {
	CustomerID   string
	AddressID    string
	ServiceType  string
	Description  string
	TechnicianID string
	SourceCallID string
}

// Actor identifies who drives a change, for the audit trail.
type Actor struct {
	Type string // technician, admin, system, customer
	ID   string
}

// Manager owns job creation, status transitions and the durable
// double-booking invariant. No other component writes job lifecycle fields.
type Manager interface {
	Create(ctx context.Context, businessID string, in CreateInput) (*models.Job, error)
	CreateEmergency(ctx context.Context, businessID string, in EmergencyInput) (*models.Job, error)

	AssignTechnician(ctx context.Context, businessID, jobID, technicianID string, by Actor) (*models.Job, error)
	UpdateStatus(ctx context.Context, businessID, jobID string, newStatus models.JobStatus, reason string, by Actor) (*models.Job, error)

	AddNote(ctx context.Context, businessID, jobID, content string, by Actor, authorName string) (*models.JobNote, error)
	AddPhoto(ctx context.Context, businessID, jobID, url, caption, photoType string, by Actor) (*models.JobPhoto, error)
	GetNotes(ctx context.Context, businessID, jobID string) ([]models.JobNote, error)
	GetPhotos(ctx context.Context, businessID, jobID string) ([]models.JobPhoto, error)

	GetByID(ctx context.Context, businessID, jobID string) (*models.Job, error)
	GetByConfirmationCode(ctx context.Context, businessID, code string) (*models.Job, error)
	List(ctx context.Context, businessID string, filter jobRepo.ListFilter) ([]models.Job, int64, error)
	GetHistory(ctx context.Context, businessID, jobID string) ([]models.JobStatusHistory, error)
}
