package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldops/config"
	reservationRepo "fieldops/database/repository/reservation"
	"fieldops/models"
	"fieldops/utils"
)

// DefaultManager is the production reservation manager: durable Mongo rows
// plus the Redis hold mirror.
type DefaultManager struct {
	Repo    reservationRepo.ReservationRepository
	Cache   HoldMirror
	Checker SlotChecker
	Rules   config.Rules
	Now     func() time.Time
	Logger  *zap.Logger
}

// Reserve validates the slot against current availability and creates a hold
// with a fresh unguessable token. The pre-check is advisory: two callers can
// still race past it, and the loser is caught by the job store's unique slot
// constraint at confirmation.
func (m *DefaultManager) Reserve(ctx context.Context, businessID, customerID, date string, start, end int) (*models.SlotReservation, error) {
	free, err := m.Checker.IsSlotFree(ctx, businessID, date, start, end, "")
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, ErrSlotUnavailable
	}

	token, err := utils.GenerateReservationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reservation token: %w", err)
	}

	now := m.Now()
	res := &models.SlotReservation{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Token:      token,
		CustomerID: customerID,
		SlotDate:   date,
		SlotStart:  start,
		SlotEnd:    end,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.Rules.HoldDuration),
	}

	if err := m.Repo.Insert(ctx, res); err != nil {
		return nil, err
	}
	// Cache write is best-effort: availability falls back to the durable
	// rows when the mirror is missing.
	if err := m.Cache.Put(ctx, res); err != nil {
		m.Logger.Warn("failed to mirror hold into cache",
			zap.String("businessId", businessID), zap.String("date", date), zap.Error(err))
	}

	m.Logger.Info("slot reserved",
		zap.String("businessId", businessID),
		zap.String("date", date),
		zap.Int("start", start),
		zap.Int("end", end),
		zap.Time("expiresAt", res.ExpiresAt))
	return res, nil
}

// Validate returns the reservation only while it is unconfirmed and
// unexpired. Expiry is judged at read time against the durable row.
func (m *DefaultManager) Validate(ctx context.Context, businessID, token string) (*models.SlotReservation, error) {
	res, err := m.Repo.GetByToken(ctx, businessID, token)
	if err == reservationRepo.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !res.Active(m.Now()) {
		return nil, ErrNotFound
	}
	return res, nil
}

// Confirm idempotently marks the hold confirmed and links the job. A false
// return (already confirmed, or expired) is non-fatal to the caller: the job
// exists either way.
func (m *DefaultManager) Confirm(ctx context.Context, businessID, token, jobID string) (bool, error) {
	now := m.Now()
	ok, err := m.Repo.Confirm(ctx, businessID, token, jobID, now)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	// Confirmed holds must stop blocking availability; the booked job row
	// covers the slot from here on.
	if res, err := m.Repo.GetByToken(ctx, businessID, token); err == nil {
		if err := m.Cache.Delete(ctx, businessID, res.SlotDate, token); err != nil {
			m.Logger.Warn("failed to drop confirmed hold from cache",
				zap.String("businessId", businessID), zap.Error(err))
		}
	}
	return true, nil
}

// ActiveHolds serves the availability read path: the Redis mirror first for
// latency, the durable rows when the mirror is unreachable. Both paths count
// only unconfirmed, unexpired holds.
func (m *DefaultManager) ActiveHolds(ctx context.Context, businessID, date string) ([]models.SlotReservation, error) {
	holds, err := m.Cache.List(ctx, businessID, date)
	if err == nil {
		return holds, nil
	}
	m.Logger.Warn("hold cache unavailable, reading durable reservations",
		zap.String("businessId", businessID), zap.String("date", date), zap.Error(err))
	return m.Repo.FindActiveByDate(ctx, businessID, date, m.Now())
}
