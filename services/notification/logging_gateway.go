package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fieldops/models"
)

// LoggingGateway is the development gateway: it logs the message and reports
// it sent. Production deployments swap in a real transport adapter behind
// the same interface.
type LoggingGateway struct {
	Logger *zap.Logger
}

func (g *LoggingGateway) Send(
	ctx context.Context,
	kind models.NotificationRecipientKind,
	recipientID string,
	channel models.NotificationChannel,
	message string,
	jobID string,
) (models.SendResult, error) {
	g.Logger.Info("outbound notification",
		zap.String("recipientKind", string(kind)),
		zap.String("recipientId", recipientID),
		zap.String("channel", string(channel)),
		zap.String("jobId", jobID),
		zap.String("message", message))
	return models.SendResult{
		Status:     models.NotificationSent,
		ExternalID: "log-" + uuid.New().String(),
	}, nil
}
