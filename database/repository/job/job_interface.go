package jobRepo

import (
	"context"
	"time"

	"fieldops/models"
)

// ListFilter narrows and pages job listings.
type ListFilter struct {
	Status       models.JobStatus
	DateFrom     string // "2006-01-02", inclusive
	DateTo       string
	TechnicianID string
	CustomerID   string
	Page         int
	PageSize     int
}

// JobRepository owns all durable job state. Every mutation of status,
// technicianId or timestamps goes through the lifecycle manager and lands
// here; no other component writes these fields.
type JobRepository interface {
	Insert(ctx context.Context, job *models.Job) error
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, businessID, jobID string) error

	GetByID(ctx context.Context, businessID, jobID string) (*models.Job, error)
	GetByConfirmationCode(ctx context.Context, businessID, code string) (*models.Job, error)
	CodeExists(ctx context.Context, businessID, code string) (bool, error)
	List(ctx context.Context, businessID string, filter ListFilter) ([]models.Job, int64, error)

	// FindScheduledByDate returns non-cancelled jobs scheduled on the date,
	// optionally narrowed to one technician. Read path of the availability
	// calculator.
	FindScheduledByDate(ctx context.Context, businessID, date, technicianID string) ([]models.Job, error)

	// FindPendingUnassigned is the escalation engine's candidate query:
	// status pending and no technician, oldest first, re-read fresh each tick.
	FindPendingUnassigned(ctx context.Context, businessID string) ([]models.Job, error)

	// UpdateEscalation advances escalationLevel and lastEscalationAt without
	// touching any lifecycle field.
	UpdateEscalation(ctx context.Context, businessID, jobID string, level int, at time.Time) error

	AddHistory(ctx context.Context, entry *models.JobStatusHistory) error
	GetHistory(ctx context.Context, jobID string) ([]models.JobStatusHistory, error)
	AddNote(ctx context.Context, note *models.JobNote) error
	GetNotes(ctx context.Context, jobID string) ([]models.JobNote, error)
	AddPhoto(ctx context.Context, photo *models.JobPhoto) error
	GetPhotos(ctx context.Context, jobID string) ([]models.JobPhoto, error)
}
