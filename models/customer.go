package models

import "time"

// Customer is a client of a business.
type Customer struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`

	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	PushToken string `bson:"pushToken,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CustomerAddress is a service location owned by a customer.
type CustomerAddress struct {
	ID         string `bson:"id" json:"id"`
	CustomerID string `bson:"customerId" json:"customerId"`

	Label       string  `bson:"label,omitempty" json:"label,omitempty"`
	Street      string  `bson:"street" json:"street"`
	Unit        string  `bson:"unit,omitempty" json:"unit,omitempty"`
	City        string  `bson:"city" json:"city"`
	State       string  `bson:"state" json:"state"`
	ZipCode     string  `bson:"zipCode" json:"zipCode"`
	GateCode    string  `bson:"gateCode,omitempty" json:"gateCode,omitempty"`
	AccessNotes string  `bson:"accessNotes,omitempty" json:"accessNotes,omitempty"`
	Latitude    float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude   float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
