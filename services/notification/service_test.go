package notification_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fieldops/config"
	"fieldops/models"
	"fieldops/services/notification"
)

type fakeRecords struct {
	rows map[string]*models.Notification
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{rows: make(map[string]*models.Notification)}
}

func (f *fakeRecords) Insert(ctx context.Context, n *models.Notification) error {
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeRecords) Update(ctx context.Context, n *models.Notification) error {
	cp := *n
	f.rows[n.ID] = &cp
	return nil
}

func (f *fakeRecords) GetByID(ctx context.Context, businessID, id string) (*models.Notification, error) {
	n, ok := f.rows[id]
	if !ok {
		return nil, errors.New("notification not found")
	}
	cp := *n
	return &cp, nil
}

func (f *fakeRecords) FindFailedForRetry(ctx context.Context, businessID string, maxRetries int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.rows {
		if n.BusinessID == businessID && n.Status == models.NotificationFailed && n.RetryCount < maxRetries {
			out = append(out, *n)
		}
	}
	return out, nil
}

type fakeGateway struct {
	failUntil int // sends fail while calls < failUntil
	calls     int
	channels  []models.NotificationChannel
}

func (f *fakeGateway) Send(
	ctx context.Context,
	kind models.NotificationRecipientKind,
	recipientID string,
	channel models.NotificationChannel,
	message string,
	jobID string,
) (models.SendResult, error) {
	f.calls++
	f.channels = append(f.channels, channel)
	if f.calls <= f.failUntil {
		return models.SendResult{}, errors.New("provider timeout")
	}
	return models.SendResult{Status: models.NotificationSent, ExternalID: "ext-1"}, nil
}

func newService(records *fakeRecords, gateway *fakeGateway) *notification.DefaultService {
	return &notification.DefaultService{
		Repo:    records,
		Gateway: gateway,
		Rules:   config.DefaultRules(),
		Now:     func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) },
		Logger:  zap.NewNop(),
	}
}

func TestNotifyOwnerUrgentAddsVoice(t *testing.T) {
	records := newFakeRecords()
	gateway := &fakeGateway{}
	svc := newService(records, gateway)

	if err := svc.NotifyOwner(context.Background(), "biz-1", "check this job", "job-1", "escalation_reminder_2", true); err != nil {
		t.Fatalf("NotifyOwner: %v", err)
	}

	var sawSMS, sawVoice bool
	for _, ch := range gateway.channels {
		switch ch {
		case models.ChannelSMS:
			sawSMS = true
		case models.ChannelVoice:
			sawVoice = true
		}
	}
	if !sawSMS || !sawVoice {
		t.Errorf("urgent owner notice must go out by SMS and voice; got %v", gateway.channels)
	}
	if len(records.rows) != 2 {
		t.Errorf("expected 2 recorded sends, got %d", len(records.rows))
	}
}

func TestDeliveryFailureIsRecordedNotReturned(t *testing.T) {
	records := newFakeRecords()
	gateway := &fakeGateway{failUntil: 100}
	svc := newService(records, gateway)

	if err := svc.NotifyTechnician(context.Background(), "biz-1", "tech-1", "go", "job-1", "job_assigned"); err != nil {
		t.Fatalf("a delivery failure must not surface to the caller; got %v", err)
	}
	for _, n := range records.rows {
		if n.Status != models.NotificationFailed {
			t.Errorf("record %s status = %s, want %s", n.ID, n.Status, models.NotificationFailed)
		}
		if n.Error == "" {
			t.Errorf("record %s should carry the delivery error", n.ID)
		}
	}
}

func TestRetryFailedRedelivers(t *testing.T) {
	records := newFakeRecords()
	gateway := &fakeGateway{failUntil: 2} // both first sends fail
	svc := newService(records, gateway)

	if err := svc.NotifyCustomer(context.Background(), "biz-1", "cust-1", "hello", "job-1", "booking_receipt"); err != nil {
		t.Fatalf("NotifyCustomer: %v", err)
	}

	attempted, succeeded, err := svc.RetryFailed(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if attempted != 2 || succeeded != 2 {
		t.Errorf("retry pass = %d attempted / %d succeeded, want 2/2", attempted, succeeded)
	}
	for _, n := range records.rows {
		if n.Status != models.NotificationSent {
			t.Errorf("record %s status = %s after retry, want %s", n.ID, n.Status, models.NotificationSent)
		}
		if n.RetryCount != 1 {
			t.Errorf("record %s retryCount = %d, want 1", n.ID, n.RetryCount)
		}
	}
}

func TestRetryFailedRespectsBudget(t *testing.T) {
	records := newFakeRecords()
	gateway := &fakeGateway{failUntil: 1000}
	svc := newService(records, gateway)

	// One failed record already at the retry cap.
	records.rows["n-1"] = &models.Notification{
		ID:         "n-1",
		BusinessID: "biz-1",
		Status:     models.NotificationFailed,
		RetryCount: config.DefaultRules().NotificationMaxRetries,
	}

	attempted, _, err := svc.RetryFailed(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if attempted != 0 {
		t.Errorf("a record at the retry cap must be left alone; attempted = %d", attempted)
	}
}
