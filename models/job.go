package models

import "time"

// JobStatus enumerates the lifecycle states of a job.
type JobStatus string

const (
	JobStatusPending       JobStatus = "pending"        // created, awaiting tech assignment
	JobStatusScheduled     JobStatus = "scheduled"      // tech assigned, waiting for job day
	JobStatusDispatched    JobStatus = "dispatched"     // emergency auto-dispatched
	JobStatusEnRoute       JobStatus = "en_route"       // tech traveling to location
	JobStatusInProgress    JobStatus = "in_progress"    // tech on site, working
	JobStatusCompleted     JobStatus = "completed"      // work finished
	JobStatusCancelled     JobStatus = "cancelled"      // cancelled by customer or business
	JobStatusAwaitingParts JobStatus = "awaiting_parts" // paused, waiting for parts
)

// JobPriority enumerates priority levels.
type JobPriority string

const (
	JobPriorityLow       JobPriority = "low"
	JobPriorityNormal    JobPriority = "normal"
	JobPriorityUrgent    JobPriority = "urgent"
	JobPriorityEmergency JobPriority = "emergency"
)

// JobSource records how the job entered the system.
type JobSource string

const (
	JobSourceCustomerApp    JobSource = "customer_app"
	JobSourcePhoneAgent     JobSource = "phone_agent"
	JobSourceAdminDashboard JobSource = "admin_dashboard"
	JobSourceWebsite        JobSource = "website"
)

// Job is the central entity: one service request / appointment.
//
// ScheduledDate is a "2006-01-02" string; ScheduledTimeStart/End are minutes
// from midnight. Zero time fields with omitempty keep unset values out of the
// document so the partial unique slot index only sees real slots.
type Job struct {
	ID           string `bson:"id" json:"id"`
	BusinessID   string `bson:"businessId" json:"businessId"`
	CustomerID   string `bson:"customerId" json:"customerId"`
	AddressID    string `bson:"addressId,omitempty" json:"addressId,omitempty"`
	TechnicianID string `bson:"technicianId,omitempty" json:"technicianId,omitempty"`

	ServiceType string      `bson:"serviceType" json:"serviceType"`
	Description string      `bson:"description,omitempty" json:"description,omitempty"`
	Priority    JobPriority `bson:"priority" json:"priority"`
	Status      JobStatus   `bson:"status" json:"status"`

	ScheduledDate      string `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`
	ScheduledTimeStart int    `bson:"scheduledTimeStart,omitempty" json:"scheduledTimeStart,omitempty"`
	ScheduledTimeEnd   int    `bson:"scheduledTimeEnd,omitempty" json:"scheduledTimeEnd,omitempty"`

	// SlotActive backs the partial unique index guarding double-booking: true
	// while the job holds a live slot claim, cleared on cancellation.
	SlotActive bool `bson:"slotActive,omitempty" json:"-"`

	Source           JobSource `bson:"source" json:"source"`
	SourceCallID     string    `bson:"sourceCallId,omitempty" json:"sourceCallId,omitempty"`
	ConfirmationCode string    `bson:"confirmationCode" json:"confirmationCode"`

	EscalationLevel  int        `bson:"escalationLevel" json:"escalationLevel"`
	LastEscalationAt *time.Time `bson:"lastEscalationAt,omitempty" json:"lastEscalationAt,omitempty"`

	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
	AssignedAt  *time.Time `bson:"assignedAt,omitempty" json:"assignedAt,omitempty"`
	StartedAt   *time.Time `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CancelledAt *time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
}

// JobNote is an append-only child of a job.
type JobNote struct {
	ID         string    `bson:"id" json:"id"`
	JobID      string    `bson:"jobId" json:"jobId"`
	Content    string    `bson:"content" json:"content"`
	AuthorType string    `bson:"authorType" json:"authorType"` // technician, admin, system
	AuthorID   string    `bson:"authorId,omitempty" json:"authorId,omitempty"`
	AuthorName string    `bson:"authorName,omitempty" json:"authorName,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// JobPhoto is an append-only photo record attached to a job.
type JobPhoto struct {
	ID             string    `bson:"id" json:"id"`
	JobID          string    `bson:"jobId" json:"jobId"`
	URL            string    `bson:"url" json:"url"`
	Caption        string    `bson:"caption,omitempty" json:"caption,omitempty"`
	PhotoType      string    `bson:"photoType,omitempty" json:"photoType,omitempty"` // before, after, diagnostic
	UploadedByType string    `bson:"uploadedByType,omitempty" json:"uploadedByType,omitempty"`
	UploadedByID   string    `bson:"uploadedById,omitempty" json:"uploadedById,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}

// JobStatusHistory is the append-only audit trail of status transitions.
// One row per transition, including the initial creation; never mutated.
type JobStatusHistory struct {
	ID            string    `bson:"id" json:"id"`
	JobID         string    `bson:"jobId" json:"jobId"`
	FromStatus    JobStatus `bson:"fromStatus,omitempty" json:"fromStatus,omitempty"`
	ToStatus      JobStatus `bson:"toStatus" json:"toStatus"`
	ChangedByType string    `bson:"changedByType" json:"changedByType"` // technician, admin, system, customer
	ChangedByID   string    `bson:"changedById,omitempty" json:"changedById,omitempty"`
	Reason        string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}
