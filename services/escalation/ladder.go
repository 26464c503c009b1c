package escalation

import (
	"fmt"
	"time"
)

// Action names for the ladder, recorded in tick results and logs.
const (
	actionFirstReminder    = "first_reminder_sent"
	actionSecondReminder   = "second_reminder_with_call"
	actionAutoAssigned     = "auto_assigned"
	actionCriticalAlert    = "critical_alert_sent"
	actionCustomerOutreach = "customer_outreach_completed"
)

// highestDueLevel returns the highest ladder level above current whose age
// threshold has been met, or current if none is due. Intermediate levels are
// skipped, never replayed; the level itself never decreases.
func highestDueLevel(current int, ageMinutes float64, thresholds []int) int {
	due := current
	for i, minAge := range thresholds {
		level := i + 1
		if level > current && ageMinutes >= float64(minAge) {
			due = level
		}
	}
	return due
}

// formatAge renders a job's age for owner-facing messages.
func formatAge(createdAt, now time.Time) string {
	minutes := int(now.Sub(createdAt).Minutes())
	switch {
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 1440:
		hours := minutes / 60
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	default:
		days := minutes / 1440
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}
