package models

import "fmt"

// TimeWindow is one candidate booking window on a day. Start/End are minutes
// from midnight; the pair is half-open.
type TimeWindow struct {
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Available bool `json:"available"`
}

// Clock renders a minute-of-day as "15:04" for API payloads and messages.
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// DayAvailability is the calculator's projection for one calendar date.
type DayAvailability struct {
	Date    string       `json:"date"` // "2006-01-02"
	Windows []TimeWindow `json:"windows"`
}
