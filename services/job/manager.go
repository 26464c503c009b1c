package job

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldops/config"
	customerRepo "fieldops/database/repository/customer"
	jobRepo "fieldops/database/repository/job"
	technicianRepo "fieldops/database/repository/technician"
	"fieldops/models"
	"fieldops/utils"
)

const dateLayout = "2006-01-02"

// codeAttempts bounds the confirmation-code collision loop. The code space
// is 36^6 per business; hitting this limit means something is badly wrong.
const codeAttempts = 5

// ReservationConfirmer is the slice of the reservation manager the lifecycle
// needs: resolve a token to its slot and confirm it once the job exists.
type ReservationConfirmer interface {
	Validate(ctx context.Context, businessID, token string) (*models.SlotReservation, error)
	Confirm(ctx context.Context, businessID, token, jobID string) (bool, error)
}

// CustomerSource resolves customer ids at creation time.
type CustomerSource interface {
	GetByID(ctx context.Context, businessID, customerID string) (*models.Customer, error)
}

// TechnicianSource resolves technician ids at assignment time.
type TechnicianSource interface {
	GetByID(ctx context.Context, businessID, techID string) (*models.Technician, error)
}

// Notifier is the outbound surface the lifecycle drives: booking receipt,
// assignment notice, en-route notice.
type Notifier interface {
	NotifyCustomer(ctx context.Context, businessID, customerID, message, jobID, triggerEvent string) error
	NotifyTechnician(ctx context.Context, businessID, technicianID, message, jobID, triggerEvent string) error
}

// DefaultManager is the production job lifecycle manager.
type DefaultManager struct {
	Repo         jobRepo.JobRepository
	Reservations ReservationConfirmer
	Customers    CustomerSource
	Techs        TechnicianSource
	Notifier     Notifier
	Rules        config.Rules
	Now          func() time.Time
	Logger       *zap.Logger
}

// resolveCustomer turns an unknown customer id into ErrNotFound. A nil
// source skips the check; storage errors pass through.
func (m *DefaultManager) resolveCustomer(ctx context.Context, businessID, customerID string) error {
	if m.Customers == nil {
		return nil
	}
	if _, err := m.Customers.GetByID(ctx, businessID, customerID); err != nil {
		if err == customerRepo.ErrNotFound {
			return fmt.Errorf("customer %s: %w", customerID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (m *DefaultManager) resolveTechnician(ctx context.Context, businessID, techID string) error {
	if m.Techs == nil {
		return nil
	}
	if _, err := m.Techs.GetByID(ctx, businessID, techID); err != nil {
		if err == technicianRepo.ErrNotFound {
			return fmt.Errorf("technician %s: %w", techID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (m *DefaultManager) Create(ctx context.Context, businessID string, in CreateInput) (*models.Job, error) {
	if in.CustomerID == "" {
		return nil, newValidationError("customer_id", "required")
	}
	if in.ServiceType == "" {
		return nil, newValidationError("service_type", "required")
	}
	if in.Priority == "" {
		in.Priority = models.JobPriorityNormal
	}
	if in.Source == "" {
		in.Source = models.JobSourceCustomerApp
	}

	// A reservation token sources the schedule fields from the hold.
	if in.ReservationToken != "" {
		res, err := m.Reservations.Validate(ctx, businessID, in.ReservationToken)
		if err != nil {
			return nil, err
		}
		in.ScheduledDate = res.SlotDate
		in.ScheduledStart = res.SlotStart
		in.ScheduledEnd = res.SlotEnd
	}
	if in.ScheduledDate != "" {
		if _, err := time.Parse(dateLayout, in.ScheduledDate); err != nil {
			return nil, newValidationError("scheduled_date", "must be YYYY-MM-DD")
		}
		if in.ScheduledEnd <= in.ScheduledStart {
			return nil, newValidationError("scheduled_time_end", "must be after start")
		}
	}
	if err := m.resolveCustomer(ctx, businessID, in.CustomerID); err != nil {
		return nil, err
	}

	code, err := m.allocateConfirmationCode(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := m.Now()
	j := &models.Job{
		ID:                 uuid.New().String(),
		BusinessID:         businessID,
		CustomerID:         in.CustomerID,
		AddressID:          in.AddressID,
		ServiceType:        in.ServiceType,
		Description:        in.Description,
		Priority:           in.Priority,
		Status:             models.JobStatusPending,
		Source:             in.Source,
		SourceCallID:       in.SourceCallID,
		ScheduledDate:      in.ScheduledDate,
		ScheduledTimeStart: in.ScheduledStart,
		ScheduledTimeEnd:   in.ScheduledEnd,
		SlotActive:         in.ScheduledDate != "",
		ConfirmationCode:   code,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// The insert is the authoritative double-booking check: a duplicate key
	// from the unique slot index means a concurrent booking won.
	if err := m.Repo.Insert(ctx, j); err != nil {
		if err == jobRepo.ErrDuplicateSlot {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	m.appendHistory(ctx, j.ID, "", models.JobStatusPending, Actor{Type: "system"}, "Job created")

	if in.ReservationToken != "" {
		// A false confirm is non-fatal: the job exists either way.
		if ok, err := m.Reservations.Confirm(ctx, businessID, in.ReservationToken, j.ID); err != nil {
			m.Logger.Warn("reservation confirm errored", zap.String("jobId", j.ID), zap.Error(err))
		} else if !ok {
			m.Logger.Warn("reservation no longer confirmable", zap.String("jobId", j.ID))
		}
	}

	receipt := fmt.Sprintf("Your service request %s is confirmed. We'll text you when a technician is assigned.", j.ConfirmationCode)
	if err := m.Notifier.NotifyCustomer(ctx, businessID, j.CustomerID, receipt, j.ID, "booking_receipt"); err != nil {
		m.Logger.Warn("booking receipt failed", zap.String("jobId", j.ID), zap.Error(err))
	}

	m.Logger.Info("job created",
		zap.String("businessId", businessID),
		zap.String("jobId", j.ID),
		zap.String("code", j.ConfirmationCode),
		zap.String("priority", string(j.Priority)))
	return j, nil
}

func (m *DefaultManager) CreateEmergency(ctx context.Context, businessID string, in EmergencyInput) (*models.Job, error) {
	if in.CustomerID == "" {
		return nil, newValidationError("customer_id", "required")
	}
	if in.TechnicianID == "" {
		return nil, newValidationError("technician_id", "required")
	}
	if in.ServiceType == "" {
		return nil, newValidationError("service_type", "required")
	}
	if err := m.resolveCustomer(ctx, businessID, in.CustomerID); err != nil {
		return nil, err
	}
	if err := m.resolveTechnician(ctx, businessID, in.TechnicianID); err != nil {
		return nil, err
	}

	code, err := m.allocateConfirmationCode(ctx, businessID)
	if err != nil {
		return nil, err
	}

	now := m.Now()
	j := &models.Job{
		ID:               uuid.New().String(),
		BusinessID:       businessID,
		CustomerID:       in.CustomerID,
		AddressID:        in.AddressID,
		TechnicianID:     in.TechnicianID,
		ServiceType:      in.ServiceType,
		Description:      in.Description,
		Priority:         models.JobPriorityEmergency,
		Status:           models.JobStatusDispatched,
		Source:           models.JobSourcePhoneAgent,
		SourceCallID:     in.SourceCallID,
		ScheduledDate:    now.Format(dateLayout),
		ConfirmationCode: code,
		CreatedAt:        now,
		UpdatedAt:        now,
		AssignedAt:       &now,
	}

	if err := m.Repo.Insert(ctx, j); err != nil {
		if err == jobRepo.ErrDuplicateSlot {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	m.appendHistory(ctx, j.ID, "", models.JobStatusDispatched, Actor{Type: "system"}, "Emergency auto-dispatch")

	notice := fmt.Sprintf("EMERGENCY dispatch: %s (%s). Head out now.", j.ServiceType, j.ConfirmationCode)
	if err := m.Notifier.NotifyTechnician(ctx, businessID, in.TechnicianID, notice, j.ID, "emergency_dispatch"); err != nil {
		m.Logger.Warn("emergency dispatch notice failed", zap.String("jobId", j.ID), zap.Error(err))
	}

	m.Logger.Info("emergency job dispatched",
		zap.String("businessId", businessID),
		zap.String("jobId", j.ID),
		zap.String("technicianId", in.TechnicianID))
	return j, nil
}

// AssignTechnician sets the technician and, when the job was still PENDING,
// advances it to SCHEDULED. Reassignment of an already-moving job is allowed
// and leaves the status alone.
func (m *DefaultManager) AssignTechnician(ctx context.Context, businessID, jobID, technicianID string, by Actor) (*models.Job, error) {
	if technicianID == "" {
		return nil, newValidationError("technician_id", "required")
	}
	if err := m.resolveTechnician(ctx, businessID, technicianID); err != nil {
		return nil, err
	}
	j, err := m.getJob(ctx, businessID, jobID)
	if err != nil {
		return nil, err
	}

	now := m.Now()
	fromStatus := j.Status
	j.TechnicianID = technicianID
	j.AssignedAt = &now
	j.UpdatedAt = now
	if j.Status == models.JobStatusPending {
		j.Status = models.JobStatusScheduled
	}

	// The replace can trip the unique slot index if this technician already
	// holds a non-cancelled job in the same window.
	if err := m.Repo.Update(ctx, j); err != nil {
		if err == jobRepo.ErrDuplicateSlot {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	if fromStatus == models.JobStatusPending {
		m.appendHistory(ctx, j.ID, fromStatus, models.JobStatusScheduled, by, "Technician assigned")
	}

	when := j.ScheduledDate
	if j.ScheduledTimeEnd > 0 {
		when = fmt.Sprintf("%s %s-%s", j.ScheduledDate, models.Clock(j.ScheduledTimeStart), models.Clock(j.ScheduledTimeEnd))
	}
	notice := fmt.Sprintf("You've been assigned job %s: %s on %s.", j.ConfirmationCode, j.ServiceType, when)
	if err := m.Notifier.NotifyTechnician(ctx, businessID, technicianID, notice, j.ID, "job_assigned"); err != nil {
		m.Logger.Warn("assignment notice failed", zap.String("jobId", j.ID), zap.Error(err))
	}

	m.Logger.Info("technician assigned",
		zap.String("businessId", businessID),
		zap.String("jobId", jobID),
		zap.String("technicianId", technicianID))
	return j, nil
}

// UpdateStatus validates the transition table, stamps the relevant
// timestamp and appends history unconditionally. EN_ROUTE stamps nothing;
// only IN_PROGRESS start and COMPLETED/CANCELLED times are recorded.
func (m *DefaultManager) UpdateStatus(ctx context.Context, businessID, jobID string, newStatus models.JobStatus, reason string, by Actor) (*models.Job, error) {
	j, err := m.getJob(ctx, businessID, jobID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(j.Status, newStatus) {
		return nil, &InvalidTransitionError{From: j.Status, To: newStatus}
	}

	now := m.Now()
	fromStatus := j.Status
	j.Status = newStatus
	j.UpdatedAt = now

	switch newStatus {
	case models.JobStatusInProgress:
		if j.StartedAt == nil {
			j.StartedAt = &now
		}
	case models.JobStatusCompleted:
		j.CompletedAt = &now
	case models.JobStatusCancelled:
		j.CancelledAt = &now
		// Cancellation releases the slot claim.
		j.SlotActive = false
	}

	if err := m.Repo.Update(ctx, j); err != nil {
		return nil, err
	}

	m.appendHistory(ctx, j.ID, fromStatus, newStatus, by, reason)

	if newStatus == models.JobStatusEnRoute {
		notice := fmt.Sprintf("Your technician is on the way for job %s.", j.ConfirmationCode)
		if err := m.Notifier.NotifyCustomer(ctx, businessID, j.CustomerID, notice, j.ID, "tech_en_route"); err != nil {
			m.Logger.Warn("en-route notice failed", zap.String("jobId", j.ID), zap.Error(err))
		}
	}

	m.Logger.Info("job status updated",
		zap.String("businessId", businessID),
		zap.String("jobId", jobID),
		zap.String("from", string(fromStatus)),
		zap.String("to", string(newStatus)))
	return j, nil
}

func (m *DefaultManager) AddNote(ctx context.Context, businessID, jobID, content string, by Actor, authorName string) (*models.JobNote, error) {
	if content == "" {
		return nil, newValidationError("content", "required")
	}
	if _, err := m.getJob(ctx, businessID, jobID); err != nil {
		return nil, err
	}
	note := &models.JobNote{
		ID:         uuid.New().String(),
		JobID:      jobID,
		Content:    content,
		AuthorType: by.Type,
		AuthorID:   by.ID,
		AuthorName: authorName,
		CreatedAt:  m.Now(),
	}
	if err := m.Repo.AddNote(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (m *DefaultManager) AddPhoto(ctx context.Context, businessID, jobID, url, caption, photoType string, by Actor) (*models.JobPhoto, error) {
	if url == "" {
		return nil, newValidationError("url", "required")
	}
	if _, err := m.getJob(ctx, businessID, jobID); err != nil {
		return nil, err
	}
	photo := &models.JobPhoto{
		ID:             uuid.New().String(),
		JobID:          jobID,
		URL:            url,
		Caption:        caption,
		PhotoType:      photoType,
		UploadedByType: by.Type,
		UploadedByID:   by.ID,
		CreatedAt:      m.Now(),
	}
	if err := m.Repo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (m *DefaultManager) GetNotes(ctx context.Context, businessID, jobID string) ([]models.JobNote, error) {
	if _, err := m.getJob(ctx, businessID, jobID); err != nil {
		return nil, err
	}
	return m.Repo.GetNotes(ctx, jobID)
}

func (m *DefaultManager) GetPhotos(ctx context.Context, businessID, jobID string) ([]models.JobPhoto, error) {
	if _, err := m.getJob(ctx, businessID, jobID); err != nil {
		return nil, err
	}
	return m.Repo.GetPhotos(ctx, jobID)
}

func (m *DefaultManager) GetByID(ctx context.Context, businessID, jobID string) (*models.Job, error) {
	return m.getJob(ctx, businessID, jobID)
}

func (m *DefaultManager) GetByConfirmationCode(ctx context.Context, businessID, code string) (*models.Job, error) {
	j, err := m.Repo.GetByConfirmationCode(ctx, businessID, code)
	if err == jobRepo.ErrNotFound {
		return nil, ErrNotFound
	}
	return j, err
}

func (m *DefaultManager) List(ctx context.Context, businessID string, filter jobRepo.ListFilter) ([]models.Job, int64, error) {
	return m.Repo.List(ctx, businessID, filter)
}

func (m *DefaultManager) GetHistory(ctx context.Context, businessID, jobID string) ([]models.JobStatusHistory, error) {
	if _, err := m.getJob(ctx, businessID, jobID); err != nil {
		return nil, err
	}
	return m.Repo.GetHistory(ctx, jobID)
}

func (m *DefaultManager) getJob(ctx context.Context, businessID, jobID string) (*models.Job, error) {
	j, err := m.Repo.GetByID(ctx, businessID, jobID)
	if err == jobRepo.ErrNotFound {
		return nil, ErrNotFound
	}
	return j, err
}

// allocateConfirmationCode draws codes until one is unused for the business.
func (m *DefaultManager) allocateConfirmationCode(ctx context.Context, businessID string) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := utils.GenerateConfirmationCode()
		if err != nil {
			return "", err
		}
		exists, err := m.Repo.CodeExists(ctx, businessID, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique confirmation code after %d attempts", codeAttempts)
}

// appendHistory records a transition; a write failure is logged, never
// surfaced, so the audit trail cannot veto a completed state change.
func (m *DefaultManager) appendHistory(ctx context.Context, jobID string, from, to models.JobStatus, by Actor, reason string) {
	entry := &models.JobStatusHistory{
		ID:            uuid.New().String(),
		JobID:         jobID,
		FromStatus:    from,
		ToStatus:      to,
		ChangedByType: by.Type,
		ChangedByID:   by.ID,
		Reason:        reason,
		CreatedAt:     m.Now(),
	}
	if err := m.Repo.AddHistory(ctx, entry); err != nil {
		m.Logger.Error("failed to append status history",
			zap.String("jobId", jobID), zap.String("to", string(to)), zap.Error(err))
	}
}
