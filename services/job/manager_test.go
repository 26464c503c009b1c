package job_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"fieldops/config"
	customerRepo "fieldops/database/repository/customer"
	jobRepo "fieldops/database/repository/job"
	"fieldops/models"
	"fieldops/services/job"
)

type fakeJobStore struct {
	jobs    map[string]*models.Job
	history []models.JobStatusHistory
	notes   []models.JobNote
	photos  []models.JobPhoto

	insertErr error
	updateErr error
}

func newFakeJobStore() *fakeJobStore {
	return &fakeJobStore{jobs: make(map[string]*models.Job)}
}

func (f *fakeJobStore) Insert(ctx context.Context, j *models.Job) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeJobStore) Update(ctx context.Context, j *models.Job) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cp := *j
	f.jobs[j.ID] = &cp
	return nil
}

func (f *fakeJobStore) Delete(ctx context.Context, businessID, jobID string) error {
	delete(f.jobs, jobID)
	return nil
}

func (f *fakeJobStore) GetByID(ctx context.Context, businessID, jobID string) (*models.Job, error) {
	j, ok := f.jobs[jobID]
	if !ok || j.BusinessID != businessID {
		return nil, jobRepo.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobStore) GetByConfirmationCode(ctx context.Context, businessID, code string) (*models.Job, error) {
	for _, j := range f.jobs {
		if j.BusinessID == businessID && j.ConfirmationCode == code {
			cp := *j
			return &cp, nil
		}
	}
	return nil, jobRepo.ErrNotFound
}

func (f *fakeJobStore) CodeExists(ctx context.Context, businessID, code string) (bool, error) {
	for _, j := range f.jobs {
		if j.BusinessID == businessID && j.ConfirmationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJobStore) List(ctx context.Context, businessID string, filter jobRepo.ListFilter) ([]models.Job, int64, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.BusinessID == businessID {
			out = append(out, *j)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeJobStore) FindScheduledByDate(ctx context.Context, businessID, date, technicianID string) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobStore) FindPendingUnassigned(ctx context.Context, businessID string) ([]models.Job, error) {
	return nil, nil
}

func (f *fakeJobStore) UpdateEscalation(ctx context.Context, businessID, jobID string, level int, at time.Time) error {
	return nil
}

func (f *fakeJobStore) AddHistory(ctx context.Context, entry *models.JobStatusHistory) error {
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeJobStore) GetHistory(ctx context.Context, jobID string) ([]models.JobStatusHistory, error) {
	var out []models.JobStatusHistory
	for _, h := range f.history {
		if h.JobID == jobID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeJobStore) AddNote(ctx context.Context, note *models.JobNote) error {
	f.notes = append(f.notes, *note)
	return nil
}

func (f *fakeJobStore) GetNotes(ctx context.Context, jobID string) ([]models.JobNote, error) {
	return f.notes, nil
}

func (f *fakeJobStore) AddPhoto(ctx context.Context, photo *models.JobPhoto) error {
	f.photos = append(f.photos, *photo)
	return nil
}

func (f *fakeJobStore) GetPhotos(ctx context.Context, jobID string) ([]models.JobPhoto, error) {
	return f.photos, nil
}

type fakeConfirmer struct {
	hold       *models.SlotReservation
	confirmed  []string
	confirmOK  bool
	confirmErr error
}

func (f *fakeConfirmer) Validate(ctx context.Context, businessID, token string) (*models.SlotReservation, error) {
	if f.hold == nil || f.hold.Token != token {
		return nil, errors.New("reservation not found")
	}
	return f.hold, nil
}

func (f *fakeConfirmer) Confirm(ctx context.Context, businessID, token, jobID string) (bool, error) {
	f.confirmed = append(f.confirmed, token)
	return f.confirmOK, f.confirmErr
}

type sentNotice struct {
	kind    string
	trigger string
}

type fakeNotifier struct {
	sent []sentNotice
}

func (f *fakeNotifier) NotifyCustomer(ctx context.Context, businessID, customerID, message, jobID, triggerEvent string) error {
	f.sent = append(f.sent, sentNotice{kind: "customer", trigger: triggerEvent})
	return nil
}

func (f *fakeNotifier) NotifyTechnician(ctx context.Context, businessID, technicianID, message, jobID, triggerEvent string) error {
	f.sent = append(f.sent, sentNotice{kind: "technician", trigger: triggerEvent})
	return nil
}

func (f *fakeNotifier) triggers() []string {
	var out []string
	for _, n := range f.sent {
		out = append(out, n.trigger)
	}
	return out
}

func newJobManager(store *fakeJobStore, confirmer *fakeConfirmer, notifier *fakeNotifier, now time.Time) *job.DefaultManager {
	return &job.DefaultManager{
		Repo:         store,
		Reservations: confirmer,
		Notifier:     notifier,
		Rules:        config.DefaultRules(),
		Now:          func() time.Time { return now },
		Logger:       zap.NewNop(),
	}
}

func TestCreateJobFromReservation(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	confirmer := &fakeConfirmer{
		hold: &models.SlotReservation{
			Token:     "tok-1",
			SlotDate:  "2024-01-05",
			SlotStart: 600,
			SlotEnd:   720,
			ExpiresAt: now.Add(5 * time.Minute),
		},
		confirmOK: true,
	}
	notifier := &fakeNotifier{}
	mgr := newJobManager(store, confirmer, notifier, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:       "cust-1",
		ServiceType:      "plumbing",
		ReservationToken: "tok-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Status != models.JobStatusPending {
		t.Errorf("status = %s, want %s", created.Status, models.JobStatusPending)
	}
	if created.ScheduledDate != "2024-01-05" || created.ScheduledTimeStart != 600 || created.ScheduledTimeEnd != 720 {
		t.Errorf("schedule fields not sourced from the hold: %s %d-%d",
			created.ScheduledDate, created.ScheduledTimeStart, created.ScheduledTimeEnd)
	}
	if !created.SlotActive {
		t.Error("a scheduled job must claim its slot")
	}
	if !strings.HasPrefix(created.ConfirmationCode, "SVC-") {
		t.Errorf("confirmation code %q lacks the SVC- prefix", created.ConfirmationCode)
	}
	if len(confirmer.confirmed) != 1 || confirmer.confirmed[0] != "tok-1" {
		t.Errorf("reservation was not confirmed: %v", confirmer.confirmed)
	}
	if got := notifier.triggers(); len(got) != 1 || got[0] != "booking_receipt" {
		t.Errorf("notifications = %v, want [booking_receipt]", got)
	}
	if len(store.history) != 1 || store.history[0].ToStatus != models.JobStatusPending {
		t.Errorf("expected one creation history entry, got %v", store.history)
	}
}

func TestCreateUnscheduledJobLeavesSlotInactive(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	mgr := newJobManager(store, &fakeConfirmer{}, &fakeNotifier{}, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "hvac",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.SlotActive {
		t.Error("a job with no schedule must not claim a slot")
	}
	if created.ScheduledDate != "" {
		t.Errorf("ScheduledDate = %q, want empty", created.ScheduledDate)
	}
}

func TestCreateMapsDuplicateSlotToConflict(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	store.insertErr = jobRepo.ErrDuplicateSlot
	mgr := newJobManager(store, &fakeConfirmer{}, &fakeNotifier{}, now)

	_, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:     "cust-1",
		ServiceType:    "plumbing",
		ScheduledDate:  "2024-01-05",
		ScheduledStart: 600,
		ScheduledEnd:   720,
	})
	if !errors.Is(err, job.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mgr := newJobManager(newFakeJobStore(), &fakeConfirmer{}, &fakeNotifier{}, now)

	cases := []struct {
		name string
		in   job.CreateInput
	}{
		{"missing customer", job.CreateInput{ServiceType: "plumbing"}},
		{"missing service type", job.CreateInput{CustomerID: "cust-1"}},
		{"bad date", job.CreateInput{CustomerID: "cust-1", ServiceType: "plumbing", ScheduledDate: "05-01-2024", ScheduledStart: 600, ScheduledEnd: 720}},
		{"inverted slot", job.CreateInput{CustomerID: "cust-1", ServiceType: "plumbing", ScheduledDate: "2024-01-05", ScheduledStart: 720, ScheduledEnd: 600}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := mgr.Create(context.Background(), "biz-1", tc.in)
			var verr *job.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

type fakeCustomers struct {
	known map[string]bool
}

func (f *fakeCustomers) GetByID(ctx context.Context, businessID, customerID string) (*models.Customer, error) {
	if !f.known[customerID] {
		return nil, customerRepo.ErrNotFound
	}
	return &models.Customer{ID: customerID, BusinessID: businessID}, nil
}

func TestCreateRejectsUnknownCustomer(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mgr := newJobManager(newFakeJobStore(), &fakeConfirmer{}, &fakeNotifier{}, now)
	mgr.Customers = &fakeCustomers{known: map[string]bool{"cust-1": true}}

	if _, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "plumbing",
	}); err != nil {
		t.Fatalf("known customer should pass: %v", err)
	}

	_, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-999",
		ServiceType: "plumbing",
	})
	if !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown customer, got %v", err)
	}
}

func TestCreateEmergencyDispatchesImmediately(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	notifier := &fakeNotifier{}
	mgr := newJobManager(store, &fakeConfirmer{}, notifier, now)

	created, err := mgr.CreateEmergency(context.Background(), "biz-1", job.EmergencyInput{
		CustomerID:   "cust-1",
		ServiceType:  "plumbing",
		TechnicianID: "tech-1",
	})
	if err != nil {
		t.Fatalf("CreateEmergency: %v", err)
	}
	if created.Status != models.JobStatusDispatched {
		t.Errorf("status = %s, want %s", created.Status, models.JobStatusDispatched)
	}
	if created.Priority != models.JobPriorityEmergency {
		t.Errorf("priority = %s, want %s", created.Priority, models.JobPriorityEmergency)
	}
	if created.TechnicianID != "tech-1" || created.AssignedAt == nil {
		t.Error("technician must be assigned at creation")
	}
	if created.ScheduledTimeStart != 0 || created.ScheduledTimeEnd != 0 {
		t.Error("emergency jobs carry no slot window")
	}
	if got := notifier.triggers(); len(got) != 1 || got[0] != "emergency_dispatch" {
		t.Errorf("notifications = %v, want [emergency_dispatch]", got)
	}
}

func TestAssignTechnicianSchedulesPendingJob(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	notifier := &fakeNotifier{}
	mgr := newJobManager(store, &fakeConfirmer{}, notifier, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "plumbing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := mgr.AssignTechnician(context.Background(), "biz-1", created.ID, "tech-1", job.Actor{Type: "admin", ID: "owner"})
	if err != nil {
		t.Fatalf("AssignTechnician: %v", err)
	}
	if updated.Status != models.JobStatusScheduled {
		t.Errorf("status = %s, want %s", updated.Status, models.JobStatusScheduled)
	}
	if updated.TechnicianID != "tech-1" || updated.AssignedAt == nil {
		t.Error("assignment fields not set")
	}

	var gotAssignedNotice bool
	for _, n := range notifier.sent {
		if n.trigger == "job_assigned" && n.kind == "technician" {
			gotAssignedNotice = true
		}
	}
	if !gotAssignedNotice {
		t.Error("technician was not notified of the assignment")
	}
}

func TestUpdateStatusRejectsInvalidTransition(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	mgr := newJobManager(store, &fakeConfirmer{}, &fakeNotifier{}, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "plumbing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = mgr.UpdateStatus(context.Background(), "biz-1", created.ID, models.JobStatusCompleted, "", job.Actor{Type: "admin"})
	var transErr *job.InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if transErr.From != models.JobStatusPending || transErr.To != models.JobStatusCompleted {
		t.Errorf("transition error names %s -> %s", transErr.From, transErr.To)
	}
}

func TestUpdateStatusStampsLifecycleTimestamps(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	notifier := &fakeNotifier{}
	mgr := newJobManager(store, &fakeConfirmer{}, notifier, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "plumbing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := mgr.AssignTechnician(context.Background(), "biz-1", created.ID, "tech-1", job.Actor{Type: "admin"}); err != nil {
		t.Fatalf("AssignTechnician: %v", err)
	}

	actor := job.Actor{Type: "technician", ID: "tech-1"}

	j, err := mgr.UpdateStatus(context.Background(), "biz-1", created.ID, models.JobStatusEnRoute, "", actor)
	if err != nil {
		t.Fatalf("to EN_ROUTE: %v", err)
	}
	if j.StartedAt != nil {
		t.Error("EN_ROUTE must not stamp StartedAt")
	}

	j, err = mgr.UpdateStatus(context.Background(), "biz-1", created.ID, models.JobStatusInProgress, "", actor)
	if err != nil {
		t.Fatalf("to IN_PROGRESS: %v", err)
	}
	if j.StartedAt == nil {
		t.Error("IN_PROGRESS must stamp StartedAt")
	}

	j, err = mgr.UpdateStatus(context.Background(), "biz-1", created.ID, models.JobStatusCompleted, "done", actor)
	if err != nil {
		t.Fatalf("to COMPLETED: %v", err)
	}
	if j.CompletedAt == nil {
		t.Error("COMPLETED must stamp CompletedAt")
	}

	var enRouteNotice bool
	for _, n := range notifier.sent {
		if n.trigger == "tech_en_route" && n.kind == "customer" {
			enRouteNotice = true
		}
	}
	if !enRouteNotice {
		t.Error("customer was not told the technician is en route")
	}
}

func TestCancellationReleasesSlot(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	mgr := newJobManager(store, &fakeConfirmer{}, &fakeNotifier{}, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:     "cust-1",
		ServiceType:    "plumbing",
		ScheduledDate:  "2024-01-05",
		ScheduledStart: 600,
		ScheduledEnd:   720,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created.SlotActive {
		t.Fatal("precondition: scheduled job claims its slot")
	}

	cancelled, err := mgr.UpdateStatus(context.Background(), "biz-1", created.ID, models.JobStatusCancelled, "customer asked", job.Actor{Type: "customer"})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.SlotActive {
		t.Error("cancellation must release the slot claim")
	}
	if cancelled.CancelledAt == nil {
		t.Error("cancellation must stamp CancelledAt")
	}
}

func TestGetByConfirmationCode(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store := newFakeJobStore()
	mgr := newJobManager(store, &fakeConfirmer{}, &fakeNotifier{}, now)

	created, err := mgr.Create(context.Background(), "biz-1", job.CreateInput{
		CustomerID:  "cust-1",
		ServiceType: "plumbing",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := mgr.GetByConfirmationCode(context.Background(), "biz-1", created.ConfirmationCode)
	if err != nil {
		t.Fatalf("GetByConfirmationCode: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("found job %s, want %s", found.ID, created.ID)
	}

	if _, err := mgr.GetByConfirmationCode(context.Background(), "biz-2", created.ConfirmationCode); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("codes are per business; expected ErrNotFound, got %v", err)
	}
}
