package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fieldops/config"
	"fieldops/models"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Request narrows an availability query.
type Request struct {
	DateFrom     string // "2006-01-02", clamped to today by the caller
	DateTo       string
	ServiceType  string
	TechnicianID string
}

// DefaultCalculator derives day-by-day booking windows from schedule blocks,
// existing jobs, time off and in-flight holds.
type DefaultCalculator struct {
	Schedule ScheduleSource
	Jobs     JobSource
	Holds    HoldSource
	Rules    config.Rules
	Logger   *zap.Logger
}

func (c *DefaultCalculator) GetAvailability(ctx context.Context, businessID string, req Request) ([]models.DayAvailability, error) {
	from, err := time.Parse(dateLayout, req.DateFrom)
	if err != nil {
		return nil, NewValidationError("date_from", "must be YYYY-MM-DD")
	}
	to, err := time.Parse(dateLayout, req.DateTo)
	if err != nil {
		return nil, NewValidationError("date_to", "must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, NewValidationError("date_to", "must not precede date_from")
	}
	if int(to.Sub(from).Hours()/24)+1 > c.Rules.AvailabilityMaxDays {
		return nil, NewValidationError("date_to", fmt.Sprintf("range exceeds %d days", c.Rules.AvailabilityMaxDays))
	}

	var days []models.DayAvailability
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		windows, err := c.dayWindows(ctx, businessID, d, req.TechnicianID)
		if err != nil {
			return nil, err
		}
		days = append(days, models.DayAvailability{
			Date:    d.Format(dateLayout),
			Windows: windows,
		})
	}
	return days, nil
}

// dayWindows generates fixed-width candidate windows for one date by walking
// each open schedule block, then flags each window against jobs, holds and
// time off.
func (c *DefaultCalculator) dayWindows(ctx context.Context, businessID string, day time.Time, technicianID string) ([]models.TimeWindow, error) {
	date := day.Format(dateLayout)
	dayOfWeek := int(day.Weekday()) // time.Sunday == 0, matching ScheduleBlock

	blocks, err := c.Schedule.FindBlocksForDay(ctx, businessID, dayOfWeek, technicianID)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule blocks: %w", err)
	}
	if len(blocks) == 0 {
		// No schedule defined for this day: zero windows, not an error.
		return nil, nil
	}

	jobs, holds, offs, err := c.dayConflicts(ctx, businessID, date, technicianID)
	if err != nil {
		return nil, err
	}

	width := c.Rules.SlotWindowMinutes
	var windows []models.TimeWindow
	for _, block := range blocks {
		for start := block.StartTime; start+width <= block.EndTime; start += width {
			end := start + width
			windows = append(windows, models.TimeWindow{
				Start:     start,
				End:       end,
				Available: slotFree(start, end, jobs, holds, offs),
			})
		}
	}
	sort.Slice(windows, func(i, j int) bool {
		if windows[i].Start != windows[j].Start {
			return windows[i].Start < windows[j].Start
		}
		return windows[i].End < windows[j].End
	})
	return windows, nil
}

func (c *DefaultCalculator) IsSlotFree(ctx context.Context, businessID, date string, start, end int, technicianID string) (bool, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false, NewValidationError("date", "must be YYYY-MM-DD")
	}
	if end <= start {
		return false, NewValidationError("end", "must be after start")
	}

	blocks, err := c.Schedule.FindBlocksForDay(ctx, businessID, int(day.Weekday()), technicianID)
	if err != nil {
		return false, fmt.Errorf("failed to load schedule blocks: %w", err)
	}
	covered := false
	for _, block := range blocks {
		if block.StartTime <= start && end <= block.EndTime {
			covered = true
			break
		}
	}
	if !covered {
		return false, nil
	}

	jobs, holds, offs, err := c.dayConflicts(ctx, businessID, date, technicianID)
	if err != nil {
		return false, err
	}
	return slotFree(start, end, jobs, holds, offs), nil
}

func (c *DefaultCalculator) dayConflicts(ctx context.Context, businessID, date, technicianID string) ([]models.Job, []models.SlotReservation, []models.TimeOff, error) {
	jobs, err := c.Jobs.FindScheduledByDate(ctx, businessID, date, technicianID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load booked jobs: %w", err)
	}
	holds, err := c.Holds.ActiveHolds(ctx, businessID, date)
	if err != nil {
		// Holds are advisory; the durable job check at commit is the
		// authoritative guard. Degrade to jobs-only rather than failing
		// the whole read.
		c.Logger.Warn("active-hold lookup failed, computing without holds",
			zap.String("businessId", businessID), zap.String("date", date), zap.Error(err))
		holds = nil
	}
	offs, err := c.Schedule.FindTimeOffForDate(ctx, businessID, date, technicianID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load time off: %w", err)
	}
	return jobs, holds, offs, nil
}

// slotFree applies half-open overlap (start1 < end2 && end1 > start2) against
// every conflict source.
func slotFree(start, end int, jobs []models.Job, holds []models.SlotReservation, offs []models.TimeOff) bool {
	for _, job := range jobs {
		if job.ScheduledTimeStart == 0 && job.ScheduledTimeEnd == 0 {
			continue
		}
		if overlaps(start, end, job.ScheduledTimeStart, job.ScheduledTimeEnd) {
			return false
		}
	}
	for _, hold := range holds {
		if overlaps(start, end, hold.SlotStart, hold.SlotEnd) {
			return false
		}
	}
	for _, off := range offs {
		if off.AllDay {
			return false
		}
		if off.StartTime != 0 || off.EndTime != 0 {
			if overlaps(start, end, off.StartTime, off.EndTime) {
				return false
			}
		}
	}
	return true
}

func overlaps(start1, end1, start2, end2 int) bool {
	return start1 < end2 && end1 > start2
}
