package notification

import (
	"context"

	"fieldops/models"
)

// Gateway is the outbound delivery contract. Transports (SMS, push, voice,
// email) live outside this system; retry/backoff of an individual delivery is
// entirely the gateway's concern. This core only records outcomes.
type Gateway interface {
	Send(
		ctx context.Context,
		kind models.NotificationRecipientKind,
		recipientID string,
		channel models.NotificationChannel,
		message string,
		jobID string,
	) (models.SendResult, error)
}

// Service records every send and drives the periodic retry pass over failed
// rows.
type Service interface {
	NotifyCustomer(ctx context.Context, businessID, customerID, message, jobID, triggerEvent string) error
	NotifyTechnician(ctx context.Context, businessID, technicianID, message, jobID, triggerEvent string) error
	// NotifyOwner targets the business owner; urgent adds a voice call on
	// top of SMS.
	NotifyOwner(ctx context.Context, businessID, message, jobID, triggerEvent string, urgent bool) error

	// RetryFailed re-attempts failed sends still under the retry budget and
	// reports how many were attempted and how many went through.
	RetryFailed(ctx context.Context, businessID string) (attempted, succeeded int, err error)
}
