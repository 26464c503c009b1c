package scheduleRepo

import (
	"context"

	"fieldops/models"
)

// ScheduleRepository reads business configuration the core never mutates:
// recurring schedule blocks and time-off overrides.
type ScheduleRepository interface {
	// FindBlocksForDay returns open blocks for the weekday. With a
	// technician id, both technician-specific and business-wide blocks come
	// back; with an empty id, only business-wide ones.
	FindBlocksForDay(ctx context.Context, businessID string, dayOfWeek int, technicianID string) ([]models.ScheduleBlock, error)

	// FindTimeOffForDate returns overrides whose date range covers the date.
	FindTimeOffForDate(ctx context.Context, businessID, date, technicianID string) ([]models.TimeOff, error)
}
