package models

import "time"

// NotificationChannel is the delivery medium for an outbound message.
type NotificationChannel string

const (
	ChannelSMS   NotificationChannel = "sms"
	ChannelPush  NotificationChannel = "push"
	ChannelVoice NotificationChannel = "voice"
	ChannelEmail NotificationChannel = "email"
)

// NotificationRecipientKind identifies which party a message targets.
type NotificationRecipientKind string

const (
	RecipientCustomer   NotificationRecipientKind = "customer"
	RecipientTechnician NotificationRecipientKind = "technician"
	RecipientOwner      NotificationRecipientKind = "owner"
)

// NotificationStatus tracks delivery state.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is the durable record of one outbound send attempt. Delivery
// itself happens behind the gateway; this row is what the retry worker works
// from.
type Notification struct {
	ID         string `bson:"id" json:"id"`
	BusinessID string `bson:"businessId" json:"businessId"`

	RecipientKind NotificationRecipientKind `bson:"recipientKind" json:"recipientKind"`
	RecipientID   string                    `bson:"recipientId" json:"recipientId"`
	Channel       NotificationChannel       `bson:"channel" json:"channel"`

	Message      string `bson:"message" json:"message"`
	TriggerEvent string `bson:"triggerEvent" json:"triggerEvent"`
	JobID        string `bson:"jobId,omitempty" json:"jobId,omitempty"`

	Status     NotificationStatus `bson:"status" json:"status"`
	ExternalID string             `bson:"externalId,omitempty" json:"externalId,omitempty"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	RetryCount int                `bson:"retryCount" json:"retryCount"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	SentAt    *time.Time `bson:"sentAt,omitempty" json:"sentAt,omitempty"`
}

// SendResult is what the delivery gateway reports back for one send.
type SendResult struct {
	Status     NotificationStatus `json:"status"`
	ExternalID string             `json:"externalId,omitempty"`
	Error      string             `json:"error,omitempty"`
}
