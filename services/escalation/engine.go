package escalation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fieldops/config"
	"fieldops/models"
	"fieldops/services/job"
)

// JobSource is the escalation engine's read/advance surface over the job
// store. The candidate query runs fresh every tick; no job list is held
// across ticks.
type JobSource interface {
	FindPendingUnassigned(ctx context.Context, businessID string) ([]models.Job, error)
	UpdateEscalation(ctx context.Context, businessID, jobID string, level int, at time.Time) error
}

// BusinessSource resolves the tenant's settings, notably auto-assign.
type BusinessSource interface {
	GetByID(ctx context.Context, businessID string) (*models.Business, error)
}

// Assigner runs level-3 auto-assignment through the same path manual
// assignment takes, so an assigned job leaves the candidate set through the
// normal status change.
type Assigner interface {
	AssignTechnician(ctx context.Context, businessID, jobID, technicianID string, by job.Actor) (*models.Job, error)
}

// AddressSource resolves a job's service address so dispatch can match on
// proximity.
type AddressSource interface {
	GetAddress(ctx context.Context, addressID string) (*models.CustomerAddress, error)
}

// Matcher is the dispatcher surface used for auto-assignment.
type Matcher interface {
	FindAvailableTechnician(ctx context.Context, businessID, serviceType string, lat, lng float64, urgency string) (*models.TechnicianMatch, error)
}

// Locker serializes ticks per business. Implemented by RunLock over Redis.
type Locker interface {
	Acquire(ctx context.Context, businessID string) (bool, func(), error)
}

// Notifier is the escalation engine's alerting surface.
type Notifier interface {
	NotifyCustomer(ctx context.Context, businessID, customerID, message, jobID, triggerEvent string) error
	NotifyOwner(ctx context.Context, businessID, message, jobID, triggerEvent string, urgent bool) error
}

// ActionRecord describes one ladder step taken during a tick.
type ActionRecord struct {
	JobID            string `json:"jobId"`
	ConfirmationCode string `json:"confirmationCode"`
	PreviousLevel    int    `json:"previousLevel"`
	NewLevel         int    `json:"newLevel"`
	Action           string `json:"action"`
}

// ActionFailure is one failed ladder action inside a tick. The level still
// advances; the failure is surfaced to the tick's caller for logging and
// metrics, not retried within the tick.
type ActionFailure struct {
	JobID  string
	Level  int
	Reason error
}

func (f ActionFailure) Error() string {
	return fmt.Sprintf("escalation action failed for job %s at level %d: %v", f.JobID, f.Level, f.Reason)
}

// TickResult summarizes one escalation pass over a business.
type TickResult struct {
	Skipped  bool // another run held the business lock
	Actions  []ActionRecord
	Failures []ActionFailure
}

// Engine walks PENDING unassigned jobs up the escalation ladder on every
// poll tick. Ticks are idempotent: re-running immediately finds nothing new
// to do.
type Engine struct {
	Jobs       JobSource
	Businesses BusinessSource
	Assigner   Assigner
	Addresses  AddressSource
	Dispatcher Matcher
	Notifier   Notifier
	Locks      Locker
	Rules      config.Rules
	Now        func() time.Time
	Logger     *zap.Logger
}

// Tick runs one escalation pass for a business under the per-business run
// lock.
func (e *Engine) Tick(ctx context.Context, businessID string) (TickResult, error) {
	acquired, release, err := e.Locks.Acquire(ctx, businessID)
	if err != nil {
		return TickResult{}, err
	}
	if !acquired {
		e.Logger.Debug("escalation tick skipped, run in progress", zap.String("businessId", businessID))
		return TickResult{Skipped: true}, nil
	}
	defer release()

	candidates, err := e.Jobs.FindPendingUnassigned(ctx, businessID)
	if err != nil {
		return TickResult{}, err
	}

	var result TickResult
	now := e.Now()
	for i := range candidates {
		j := &candidates[i]
		age := now.Sub(j.CreatedAt).Minutes()
		nextLevel := highestDueLevel(j.EscalationLevel, age, e.Rules.EscalationThresholds)
		if nextLevel == j.EscalationLevel {
			continue
		}

		action, actErr := e.performAction(ctx, businessID, j, nextLevel)
		if actErr != nil {
			// The ladder must not stall because one delivery failed.
			result.Failures = append(result.Failures, ActionFailure{JobID: j.ID, Level: nextLevel, Reason: actErr})
		}

		if err := e.Jobs.UpdateEscalation(ctx, businessID, j.ID, nextLevel, now); err != nil {
			return result, fmt.Errorf("failed to advance escalation level for job %s: %w", j.ID, err)
		}

		result.Actions = append(result.Actions, ActionRecord{
			JobID:            j.ID,
			ConfirmationCode: j.ConfirmationCode,
			PreviousLevel:    j.EscalationLevel,
			NewLevel:         nextLevel,
			Action:           action,
		})
		e.Logger.Info("job escalated",
			zap.String("businessId", businessID),
			zap.String("jobId", j.ID),
			zap.Int("fromLevel", j.EscalationLevel),
			zap.Int("toLevel", nextLevel),
			zap.String("action", action))
	}
	return result, nil
}

// performAction executes exactly the target level's action. Intermediate
// levels that were skipped are not replayed.
func (e *Engine) performAction(ctx context.Context, businessID string, j *models.Job, level int) (string, error) {
	age := formatAge(j.CreatedAt, e.Now())

	switch level {
	case 1:
		msg := fmt.Sprintf("Job %s needs assignment. Service: %s. Created %s ago.",
			j.ConfirmationCode, j.ServiceType, age)
		if err := e.Notifier.NotifyOwner(ctx, businessID, msg, j.ID, "escalation_reminder_1", false); err != nil {
			return actionFirstReminder, err
		}
		return actionFirstReminder, nil

	case 2:
		msg := fmt.Sprintf("URGENT: Job %s still unassigned! Customer waiting for %s. Please assign immediately.",
			j.ConfirmationCode, age)
		if err := e.Notifier.NotifyOwner(ctx, businessID, msg, j.ID, "escalation_reminder_2", true); err != nil {
			return actionSecondReminder, err
		}
		return actionSecondReminder, nil

	case 3:
		if e.autoAssignEnabled(ctx, businessID) {
			if assigned := e.tryAutoAssign(ctx, businessID, j); assigned {
				return actionAutoAssigned, nil
			}
		}
		msg := fmt.Sprintf("CRITICAL: Job %s unassigned for %s! Customer may call a competitor. Action required now.",
			j.ConfirmationCode, age)
		if err := e.Notifier.NotifyOwner(ctx, businessID, msg, j.ID, "escalation_critical", true); err != nil {
			return actionCriticalAlert, err
		}
		return actionCriticalAlert, nil

	case 4:
		var firstErr error
		apology := "We apologize for the delay in confirming your service request. " +
			"We're working to assign a technician. Please call us if you need immediate assistance."
		if err := e.Notifier.NotifyCustomer(ctx, businessID, j.CustomerID, apology, j.ID, "escalation_customer_apology"); err != nil {
			firstErr = err
		}
		msg := fmt.Sprintf("SLA BREACH: Job %s unassigned for 24+ hours. Customer has been notified of the delay.",
			j.ConfirmationCode)
		if err := e.Notifier.NotifyOwner(ctx, businessID, msg, j.ID, "escalation_sla_breach", true); err != nil && firstErr == nil {
			firstErr = err
		}
		return actionCustomerOutreach, firstErr

	default:
		return "", fmt.Errorf("no action defined for escalation level %d", level)
	}
}

func (e *Engine) autoAssignEnabled(ctx context.Context, businessID string) bool {
	biz, err := e.Businesses.GetByID(ctx, businessID)
	if err != nil {
		e.Logger.Warn("failed to load business settings, using default auto-assign",
			zap.String("businessId", businessID), zap.Error(err))
		return e.Rules.AutoAssignDefault
	}
	return biz.AutoAssignEnabled
}

func (e *Engine) tryAutoAssign(ctx context.Context, businessID string, j *models.Job) bool {
	var lat, lng float64
	if e.Addresses != nil && j.AddressID != "" {
		if addr, err := e.Addresses.GetAddress(ctx, j.AddressID); err == nil {
			lat, lng = addr.Latitude, addr.Longitude
		}
	}
	match, err := e.Dispatcher.FindAvailableTechnician(ctx, businessID, j.ServiceType, lat, lng, "normal")
	if err != nil || match == nil {
		if err != nil {
			e.Logger.Warn("auto-assign matching failed", zap.String("jobId", j.ID), zap.Error(err))
		}
		return false
	}
	if _, err := e.Assigner.AssignTechnician(ctx, businessID, j.ID, match.TechnicianID, job.Actor{Type: "system"}); err != nil {
		e.Logger.Warn("auto-assign failed", zap.String("jobId", j.ID),
			zap.String("technicianId", match.TechnicianID), zap.Error(err))
		return false
	}
	return true
}
