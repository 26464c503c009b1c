package models

import "time"

// Business is one tenant of the system.
type Business struct {
	ID string `bson:"id" json:"id"`

	Name       string `bson:"name" json:"name"`
	OwnerName  string `bson:"ownerName,omitempty" json:"ownerName,omitempty"`
	OwnerPhone string `bson:"ownerPhone" json:"ownerPhone"`
	OwnerEmail string `bson:"ownerEmail,omitempty" json:"ownerEmail,omitempty"`

	IsActive bool `bson:"isActive" json:"isActive"`

	// Per-tenant behavior switches.
	AutoAssignEnabled bool `bson:"autoAssignEnabled" json:"autoAssignEnabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
