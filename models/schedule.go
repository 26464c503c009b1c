package models

import "time"

// ScheduleBlock is a recurring weekly availability rule. A nil TechnicianID
// makes the block business-wide. IsAvailable=false marks an explicit block.
type ScheduleBlock struct {
	ID           string `bson:"id" json:"id"`
	BusinessID   string `bson:"businessId" json:"businessId"`
	TechnicianID string `bson:"technicianId,omitempty" json:"technicianId,omitempty"`

	DayOfWeek int `bson:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime int `bson:"startTime" json:"startTime"` // minutes from midnight
	EndTime   int `bson:"endTime" json:"endTime"`

	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
	Label       string `bson:"label,omitempty" json:"label,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TimeOff is a date-range override that beats ScheduleBlock for its range.
// An empty TechnicianID means the whole business is closed.
type TimeOff struct {
	ID           string `bson:"id" json:"id"`
	BusinessID   string `bson:"businessId" json:"businessId"`
	TechnicianID string `bson:"technicianId,omitempty" json:"technicianId,omitempty"`

	StartDate string `bson:"startDate" json:"startDate"` // "2006-01-02"
	EndDate   string `bson:"endDate" json:"endDate"`

	AllDay    bool `bson:"allDay" json:"allDay"`
	StartTime int  `bson:"startTime,omitempty" json:"startTime,omitempty"` // if not all day
	EndTime   int  `bson:"endTime,omitempty" json:"endTime,omitempty"`

	Reason    string    `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// SlotReservation is a short-lived hold on a slot while a booking flow runs.
// It is never mutated back to "available": expiry is time-based and checked
// at read time. Once confirmed it is immutable and points at the job it
// produced.
type SlotReservation struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`

	Token      string `bson:"token" json:"token"`
	CustomerID string `bson:"customerId" json:"customerId"`

	SlotDate  string `bson:"slotDate" json:"slotDate"` // "2006-01-02"
	SlotStart int    `bson:"slotStart" json:"slotStart"`
	SlotEnd   int    `bson:"slotEnd" json:"slotEnd"`

	IsConfirmed bool   `bson:"isConfirmed" json:"isConfirmed"`
	JobID       string `bson:"jobId,omitempty" json:"jobId,omitempty"` // set on confirmation

	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	ExpiresAt   time.Time  `bson:"expiresAt" json:"expiresAt"`
	ConfirmedAt *time.Time `bson:"confirmedAt,omitempty" json:"confirmedAt,omitempty"`
}

// Active reports whether the hold still blocks availability at the given
// instant: unconfirmed and unexpired.
func (r SlotReservation) Active(now time.Time) bool {
	return !r.IsConfirmed && r.ExpiresAt.After(now)
}
