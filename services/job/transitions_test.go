package job_test

import (
	"testing"

	"fieldops/models"
	"fieldops/services/job"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.JobStatus }{
		{models.JobStatusPending, models.JobStatusScheduled},
		{models.JobStatusPending, models.JobStatusCancelled},
		{models.JobStatusScheduled, models.JobStatusEnRoute},
		{models.JobStatusScheduled, models.JobStatusCancelled},
		{models.JobStatusDispatched, models.JobStatusEnRoute},
		{models.JobStatusEnRoute, models.JobStatusInProgress},
		{models.JobStatusInProgress, models.JobStatusCompleted},
		{models.JobStatusInProgress, models.JobStatusAwaitingParts},
		{models.JobStatusAwaitingParts, models.JobStatusInProgress},
		{models.JobStatusAwaitingParts, models.JobStatusCompleted},
	}
	for _, tc := range allowed {
		if !job.CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be allowed", tc.from, tc.to)
		}
	}

	denied := []struct{ from, to models.JobStatus }{
		{models.JobStatusPending, models.JobStatusInProgress},
		{models.JobStatusPending, models.JobStatusCompleted},
		{models.JobStatusScheduled, models.JobStatusInProgress},
		{models.JobStatusEnRoute, models.JobStatusCancelled},
		{models.JobStatusInProgress, models.JobStatusCancelled},
		{models.JobStatusCompleted, models.JobStatusInProgress},
		{models.JobStatusCompleted, models.JobStatusPending},
		{models.JobStatusCancelled, models.JobStatusPending},
		{models.JobStatusCancelled, models.JobStatusScheduled},
		{models.JobStatusDispatched, models.JobStatusCancelled},
	}
	for _, tc := range denied {
		if job.CanTransition(tc.from, tc.to) {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	all := []models.JobStatus{
		models.JobStatusPending,
		models.JobStatusScheduled,
		models.JobStatusDispatched,
		models.JobStatusEnRoute,
		models.JobStatusInProgress,
		models.JobStatusCompleted,
		models.JobStatusCancelled,
		models.JobStatusAwaitingParts,
	}
	for _, terminal := range []models.JobStatus{models.JobStatusCompleted, models.JobStatusCancelled} {
		for _, to := range all {
			if job.CanTransition(terminal, to) {
				t.Errorf("%s is terminal but allows a move to %s", terminal, to)
			}
		}
	}
}
