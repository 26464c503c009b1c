package escalation

import (
	"testing"
	"time"
)

func TestHighestDueLevel(t *testing.T) {
	thresholds := []int{30, 120, 240, 1440}

	cases := []struct {
		name    string
		current int
		age     float64
		want    int
	}{
		{"fresh job", 0, 10, 0},
		{"first threshold", 0, 30, 1},
		{"just under second", 0, 119, 1},
		{"second threshold", 0, 120, 2},
		{"five hours jumps to three", 0, 300, 3},
		{"full day jumps to four", 0, 2000, 4},
		{"no replay of lower levels", 3, 300, 3},
		{"advances from mid-ladder", 1, 300, 3},
		{"never decreases", 2, 10, 2},
		{"tops out", 4, 100000, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := highestDueLevel(tc.current, tc.age, thresholds); got != tc.want {
				t.Errorf("highestDueLevel(%d, %.0f) = %d, want %d", tc.current, tc.age, got, tc.want)
			}
		})
	}
}

func TestFormatAge(t *testing.T) {
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		age  time.Duration
		want string
	}{
		{45 * time.Minute, "45 minutes"},
		{90 * time.Minute, "1 hour"},
		{5 * time.Hour, "5 hours"},
		{25 * time.Hour, "1 day"},
		{50 * time.Hour, "2 days"},
	}
	for _, tc := range cases {
		if got := formatAge(now.Add(-tc.age), now); got != tc.want {
			t.Errorf("formatAge(-%v) = %q, want %q", tc.age, got, tc.want)
		}
	}
}
