package job

import "fieldops/models"

// allowedNext is the full transition table. Anything absent fails with
// InvalidTransitionError regardless of who asks; enforcement lives at this
// manager boundary, not in callers.
//
// PENDING→SCHEDULED is driven by technician assignment, CANCELLED is
// reachable from PENDING and SCHEDULED only, and AWAITING_PARTS is a pause
// loop off IN_PROGRESS.
var allowedNext = map[models.JobStatus][]models.JobStatus{
	models.JobStatusPending:       {models.JobStatusScheduled, models.JobStatusCancelled},
	models.JobStatusScheduled:     {models.JobStatusEnRoute, models.JobStatusCancelled},
	models.JobStatusDispatched:    {models.JobStatusEnRoute},
	models.JobStatusEnRoute:       {models.JobStatusInProgress},
	models.JobStatusInProgress:    {models.JobStatusCompleted, models.JobStatusAwaitingParts},
	models.JobStatusAwaitingParts: {models.JobStatusInProgress, models.JobStatusCompleted},
	models.JobStatusCompleted:     {},
	models.JobStatusCancelled:     {},
}

// CanTransition reports whether the status change is in the table.
func CanTransition(from, to models.JobStatus) bool {
	for _, next := range allowedNext[from] {
		if next == to {
			return true
		}
	}
	return false
}
