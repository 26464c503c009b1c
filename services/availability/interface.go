package availability

import (
	"context"

	"fieldops/models"
)

// JobSource is the slice of the job store the calculator reads: non-cancelled
// jobs scheduled on a date.
type JobSource interface {
	FindScheduledByDate(ctx context.Context, businessID, date, technicianID string) ([]models.Job, error)
}

// HoldSource exposes the reservation manager's active holds for a date. The
// hold store itself stays owned by the reservation manager; this is its only
// read surface.
type HoldSource interface {
	ActiveHolds(ctx context.Context, businessID, date string) ([]models.SlotReservation, error)
}

// ScheduleSource reads the business-configuration side: recurring blocks and
// time-off overrides.
type ScheduleSource interface {
	FindBlocksForDay(ctx context.Context, businessID string, dayOfWeek int, technicianID string) ([]models.ScheduleBlock, error)
	FindTimeOffForDate(ctx context.Context, businessID, date, technicianID string) ([]models.TimeOff, error)
}

// Service computes free/busy windows. It is a read-only projection: it never
// creates, expires or mutates anything.
type Service interface {
	GetAvailability(ctx context.Context, businessID string, req Request) ([]models.DayAvailability, error)
	IsSlotFree(ctx context.Context, businessID, date string, start, end int, technicianID string) (bool, error)
}
