package reservation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fieldops/config"
	reservationRepo "fieldops/database/repository/reservation"
	"fieldops/models"
	"fieldops/services/reservation"
)

type fakeRepo struct {
	byToken map[string]*models.SlotReservation
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byToken: make(map[string]*models.SlotReservation)}
}

func (f *fakeRepo) Insert(ctx context.Context, res *models.SlotReservation) error {
	cp := *res
	f.byToken[res.Token] = &cp
	return nil
}

func (f *fakeRepo) GetByToken(ctx context.Context, businessID, token string) (*models.SlotReservation, error) {
	res, ok := f.byToken[token]
	if !ok || res.BusinessID != businessID {
		return nil, reservationRepo.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeRepo) Confirm(ctx context.Context, businessID, token, jobID string, now time.Time) (bool, error) {
	res, ok := f.byToken[token]
	if !ok || res.BusinessID != businessID {
		return false, nil
	}
	if res.IsConfirmed || !res.ExpiresAt.After(now) {
		return false, nil
	}
	res.IsConfirmed = true
	res.JobID = jobID
	res.ConfirmedAt = &now
	return true, nil
}

func (f *fakeRepo) FindActiveByDate(ctx context.Context, businessID, date string, now time.Time) ([]models.SlotReservation, error) {
	var out []models.SlotReservation
	for _, res := range f.byToken {
		if res.BusinessID == businessID && res.SlotDate == date && res.Active(now) {
			out = append(out, *res)
		}
	}
	return out, nil
}

type fakeMirror struct {
	puts    int
	deletes int
	listErr error
	holds   []models.SlotReservation
}

func (f *fakeMirror) Put(ctx context.Context, res *models.SlotReservation) error {
	f.puts++
	return nil
}

func (f *fakeMirror) Delete(ctx context.Context, businessID, date, token string) error {
	f.deletes++
	return nil
}

func (f *fakeMirror) List(ctx context.Context, businessID, date string) ([]models.SlotReservation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.holds, nil
}

type fakeChecker struct {
	free bool
}

func (f *fakeChecker) IsSlotFree(ctx context.Context, businessID, date string, start, end int, technicianID string) (bool, error) {
	return f.free, nil
}

func newManager(repo *fakeRepo, mirror *fakeMirror, free bool, now time.Time) *reservation.DefaultManager {
	return &reservation.DefaultManager{
		Repo:    repo,
		Cache:   mirror,
		Checker: &fakeChecker{free: free},
		Rules:   config.DefaultRules(),
		Now:     func() time.Time { return now },
		Logger:  zap.NewNop(),
	}
}

func TestReserveCreatesHoldWithTTL(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	mirror := &fakeMirror{}
	mgr := newManager(repo, mirror, true, now)

	hold, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if hold.Token == "" {
		t.Error("expected a non-empty token")
	}
	wantExpiry := now.Add(config.DefaultRules().HoldDuration)
	if !hold.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", hold.ExpiresAt, wantExpiry)
	}
	if _, ok := repo.byToken[hold.Token]; !ok {
		t.Error("hold was not persisted")
	}
	if mirror.puts != 1 {
		t.Errorf("mirror puts = %d, want 1", mirror.puts)
	}
}

func TestReserveRejectsBusySlot(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mgr := newManager(newFakeRepo(), &fakeMirror{}, false, now)

	_, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720)
	if !errors.Is(err, reservation.ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}
}

func TestValidateExpiredHold(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	mgr := newManager(repo, &fakeMirror{}, true, start)

	hold, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	// Still valid just before expiry.
	mgr.Now = func() time.Time { return hold.ExpiresAt.Add(-time.Second) }
	if _, err := mgr.Validate(context.Background(), "biz-1", hold.Token); err != nil {
		t.Fatalf("Validate before expiry: %v", err)
	}

	// Invalid at and after expiry.
	mgr.Now = func() time.Time { return hold.ExpiresAt }
	if _, err := mgr.Validate(context.Background(), "biz-1", hold.Token); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry, got %v", err)
	}
}

func TestValidateUnknownToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	mgr := newManager(newFakeRepo(), &fakeMirror{}, true, now)

	if _, err := mgr.Validate(context.Background(), "biz-1", "no-such-token"); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConfirmIsIdempotent(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	mirror := &fakeMirror{}
	mgr := newManager(repo, mirror, true, now)

	hold, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	ok, err := mgr.Confirm(context.Background(), "biz-1", hold.Token, "job-1")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if !ok {
		t.Fatal("first confirm should succeed")
	}
	if mirror.deletes != 1 {
		t.Errorf("mirror deletes = %d, want 1", mirror.deletes)
	}

	// Second confirm of the same token is a no-op, not an error.
	ok, err = mgr.Confirm(context.Background(), "biz-1", hold.Token, "job-2")
	if err != nil {
		t.Fatalf("second Confirm: %v", err)
	}
	if ok {
		t.Fatal("second confirm should report false")
	}

	// A confirmed hold no longer validates.
	if _, err := mgr.Validate(context.Background(), "biz-1", hold.Token); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for confirmed hold, got %v", err)
	}
}

func TestConfirmExpiredHoldReturnsFalse(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	mgr := newManager(repo, &fakeMirror{}, true, start)

	hold, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720)
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	mgr.Now = func() time.Time { return hold.ExpiresAt.Add(time.Minute) }
	ok, err := mgr.Confirm(context.Background(), "biz-1", hold.Token, "job-1")
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if ok {
		t.Fatal("confirming an expired hold should report false")
	}
}

func TestActiveHoldsFallsBackToDurableRows(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	mirror := &fakeMirror{listErr: errors.New("redis down")}
	mgr := newManager(repo, mirror, true, now)

	if _, err := mgr.Reserve(context.Background(), "biz-1", "cust-1", "2024-01-05", 600, 720); err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	holds, err := mgr.ActiveHolds(context.Background(), "biz-1", "2024-01-05")
	if err != nil {
		t.Fatalf("ActiveHolds: %v", err)
	}
	if len(holds) != 1 {
		t.Fatalf("expected 1 durable hold, got %d", len(holds))
	}
}
