package reservation

import (
	"context"

	"fieldops/models"
)

// HoldMirror is the fast-path hold store. Implemented by HoldCache over
// Redis; every call is best-effort from the manager's point of view except
// List, whose failure falls back to the durable rows.
type HoldMirror interface {
	Put(ctx context.Context, res *models.SlotReservation) error
	Delete(ctx context.Context, businessID, date, token string) error
	List(ctx context.Context, businessID, date string) ([]models.SlotReservation, error)
}

// SlotChecker is the availability pre-check the manager runs before holding
// a slot. Implemented by the availability calculator.
type SlotChecker interface {
	IsSlotFree(ctx context.Context, businessID, date string, start, end int, technicianID string) (bool, error)
}

// Manager owns slot holds: their creation, validation, confirmation and the
// fast-path cache no other component touches.
type Manager interface {
	Reserve(ctx context.Context, businessID, customerID, date string, start, end int) (*models.SlotReservation, error)
	Validate(ctx context.Context, businessID, token string) (*models.SlotReservation, error)
	Confirm(ctx context.Context, businessID, token, jobID string) (bool, error)
	ActiveHolds(ctx context.Context, businessID, date string) ([]models.SlotReservation, error)
}
