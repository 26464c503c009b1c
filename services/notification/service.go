package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldops/config"
	notificationRepo "fieldops/database/repository/notification"
	"fieldops/models"
)

// DefaultService is the production implementation: one durable row per send
// attempt, delivery delegated to the gateway.
type DefaultService struct {
	Repo    notificationRepo.NotificationRepository
	Gateway Gateway
	Rules   config.Rules
	Now     func() time.Time
	Logger  *zap.Logger
}

func (s *DefaultService) NotifyCustomer(ctx context.Context, businessID, customerID, message, jobID, triggerEvent string) error {
	// Push plus SMS for reliability; both are best-effort individually.
	for _, channel := range []models.NotificationChannel{models.ChannelPush, models.ChannelSMS} {
		s.sendOne(ctx, businessID, models.RecipientCustomer, customerID, channel, message, jobID, triggerEvent)
	}
	return nil
}

func (s *DefaultService) NotifyTechnician(ctx context.Context, businessID, technicianID, message, jobID, triggerEvent string) error {
	for _, channel := range []models.NotificationChannel{models.ChannelPush, models.ChannelSMS} {
		s.sendOne(ctx, businessID, models.RecipientTechnician, technicianID, channel, message, jobID, triggerEvent)
	}
	return nil
}

func (s *DefaultService) NotifyOwner(ctx context.Context, businessID, message, jobID, triggerEvent string, urgent bool) error {
	channels := []models.NotificationChannel{models.ChannelSMS}
	if urgent {
		channels = append(channels, models.ChannelVoice)
	}
	for _, channel := range channels {
		s.sendOne(ctx, businessID, models.RecipientOwner, businessID, channel, message, jobID, triggerEvent)
	}
	return nil
}

// sendOne records the attempt and hands it to the gateway. A failed delivery
// is logged and left for the retry worker; it never fails the caller's
// operation.
func (s *DefaultService) sendOne(
	ctx context.Context,
	businessID string,
	kind models.NotificationRecipientKind,
	recipientID string,
	channel models.NotificationChannel,
	message, jobID, triggerEvent string,
) {
	now := s.Now()
	record := &models.Notification{
		ID:            uuid.New().String(),
		BusinessID:    businessID,
		RecipientKind: kind,
		RecipientID:   recipientID,
		Channel:       channel,
		Message:       message,
		TriggerEvent:  triggerEvent,
		JobID:         jobID,
		Status:        models.NotificationPending,
		CreatedAt:     now,
	}
	if err := s.Repo.Insert(ctx, record); err != nil {
		s.Logger.Error("failed to record notification",
			zap.String("businessId", businessID), zap.String("trigger", triggerEvent), zap.Error(err))
		return
	}

	s.deliver(ctx, record)
}

func (s *DefaultService) deliver(ctx context.Context, record *models.Notification) {
	result, err := s.Gateway.Send(ctx, record.RecipientKind, record.RecipientID, record.Channel, record.Message, record.JobID)
	now := s.Now()
	if err != nil {
		record.Status = models.NotificationFailed
		record.Error = err.Error()
	} else {
		record.Status = result.Status
		record.ExternalID = result.ExternalID
		record.Error = result.Error
		if result.Status == models.NotificationSent {
			record.SentAt = &now
		}
	}

	if err := s.Repo.Update(ctx, record); err != nil {
		s.Logger.Error("failed to update notification record",
			zap.String("id", record.ID), zap.Error(err))
		return
	}
	if record.Status != models.NotificationSent {
		s.Logger.Warn("notification delivery failed",
			zap.String("id", record.ID),
			zap.String("channel", string(record.Channel)),
			zap.String("trigger", record.TriggerEvent),
			zap.String("error", record.Error))
	}
}

func (s *DefaultService) RetryFailed(ctx context.Context, businessID string) (int, int, error) {
	failed, err := s.Repo.FindFailedForRetry(ctx, businessID, s.Rules.NotificationMaxRetries)
	if err != nil {
		return 0, 0, err
	}

	attempted, succeeded := 0, 0
	for i := range failed {
		record := &failed[i]
		record.RetryCount++
		attempted++
		s.deliver(ctx, record)
		if record.Status == models.NotificationSent {
			succeeded++
		}
	}
	return attempted, succeeded, nil
}
