package models

import "time"

// Technician is a field worker employed by a business.
type Technician struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`

	Name      string   `bson:"name" json:"name"`
	Phone     string   `bson:"phone" json:"phone"`
	Email     string   `bson:"email,omitempty" json:"email,omitempty"`
	Skills    []string `bson:"skills,omitempty" json:"skills,omitempty"` // service types this tech covers
	IsActive  bool     `bson:"isActive" json:"isActive"`
	IsOnCall  bool     `bson:"isOnCall" json:"isOnCall"`
	PushToken string   `bson:"pushToken,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TechnicianMatch is the dispatcher's answer to "who should take this job".
type TechnicianMatch struct {
	TechnicianID   string  `json:"technicianId"`
	TechnicianName string  `json:"technicianName"`
	Phone          string  `json:"phone,omitempty"`
	ETAMinutes     int     `json:"etaMinutes"`
	DistanceMiles  float64 `json:"distanceMiles"`
}
