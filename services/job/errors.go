package job

import (
	"errors"
	"fmt"

	"fieldops/models"
)

// ErrSlotConflict is returned only when the durable unique slot constraint
// rejects a commit: a race was lost, not a stale read. Callers treat it like
// an unavailable slot but it is a distinct signal for race-frequency metrics.
var ErrSlotConflict = errors.New("slot was claimed by a concurrent booking")

// ErrNotFound covers unknown job, customer or technician ids for the business.
var ErrNotFound = errors.New("job not found")

// InvalidTransitionError names the current and requested status of a
// rejected state change. The job is left untouched.
type InvalidTransitionError struct {
	From models.JobStatus
	To   models.JobStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition job from %s to %s", e.From, e.To)
}

// ValidationError rejects malformed input before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func newValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
