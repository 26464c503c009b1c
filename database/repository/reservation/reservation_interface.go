package reservationRepo

import (
	"context"
	"time"

	"fieldops/models"
)

// ReservationRepository is the durable side of the dual-store hold design.
// It is the source of truth for confirmation and expiry; the Redis mirror is
// only a read-path optimization.
type ReservationRepository interface {
	Insert(ctx context.Context, res *models.SlotReservation) error

	// GetByToken looks a hold up by its random token alone; no business or
	// date scan is involved.
	GetByToken(ctx context.Context, businessID, token string) (*models.SlotReservation, error)

	// Confirm flips the hold to confirmed and links the job, but only if it
	// is still unconfirmed and unexpired at the given instant. Returns false
	// when the guard fails.
	Confirm(ctx context.Context, businessID, token, jobID string, now time.Time) (bool, error)

	// FindActiveByDate returns unconfirmed, unexpired holds for the date.
	FindActiveByDate(ctx context.Context, businessID, date string, now time.Time) ([]models.SlotReservation, error)
}
