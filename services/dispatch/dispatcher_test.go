package dispatch_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"fieldops/models"
	"fieldops/services/dispatch"
)

type fakeTechs struct {
	techs []models.Technician
}

func (f *fakeTechs) Insert(ctx context.Context, tech *models.Technician) error {
	f.techs = append(f.techs, *tech)
	return nil
}

func (f *fakeTechs) GetByID(ctx context.Context, businessID, techID string) (*models.Technician, error) {
	for i := range f.techs {
		if f.techs[i].ID == techID {
			return &f.techs[i], nil
		}
	}
	return nil, errors.New("technician not found")
}

func (f *fakeTechs) FindActive(ctx context.Context, businessID string) ([]models.Technician, error) {
	return f.techs, nil
}

func TestFindAvailableTechnicianPrefersSkillMatch(t *testing.T) {
	techs := &fakeTechs{techs: []models.Technician{
		{ID: "tech-1", Name: "A", Skills: []string{"hvac"}, IsActive: true},
		{ID: "tech-2", Name: "B", Skills: []string{"plumbing"}, IsActive: true},
	}}
	d := &dispatch.DefaultDispatcher{Techs: techs, Logger: zap.NewNop()}

	match, err := d.FindAvailableTechnician(context.Background(), "biz-1", "plumbing", 0, 0, "normal")
	if err != nil {
		t.Fatalf("FindAvailableTechnician: %v", err)
	}
	if match.TechnicianID != "tech-2" {
		t.Errorf("matched %s, want tech-2", match.TechnicianID)
	}
	if match.ETAMinutes != 30 || match.DistanceMiles != 5.0 {
		t.Errorf("estimates = %d min / %.1f mi, want 30 / 5.0", match.ETAMinutes, match.DistanceMiles)
	}
}

func TestFindAvailableTechnicianTreatsNoSkillsAsGeneralist(t *testing.T) {
	techs := &fakeTechs{techs: []models.Technician{
		{ID: "tech-1", Name: "A", IsActive: true},
	}}
	d := &dispatch.DefaultDispatcher{Techs: techs, Logger: zap.NewNop()}

	match, err := d.FindAvailableTechnician(context.Background(), "biz-1", "electrical", 0, 0, "normal")
	if err != nil {
		t.Fatalf("FindAvailableTechnician: %v", err)
	}
	if match.TechnicianID != "tech-1" {
		t.Errorf("matched %s, want tech-1", match.TechnicianID)
	}
}

func TestFindAvailableTechnicianNoMatch(t *testing.T) {
	techs := &fakeTechs{techs: []models.Technician{
		{ID: "tech-1", Name: "A", Skills: []string{"hvac"}, IsActive: true},
	}}
	d := &dispatch.DefaultDispatcher{Techs: techs, Logger: zap.NewNop()}

	if _, err := d.FindAvailableTechnician(context.Background(), "biz-1", "plumbing", 0, 0, "normal"); !errors.Is(err, dispatch.ErrNoTechnicianAvailable) {
		t.Fatalf("expected ErrNoTechnicianAvailable, got %v", err)
	}

	// An emergency takes anyone on the active roster.
	match, err := d.FindAvailableTechnician(context.Background(), "biz-1", "plumbing", 0, 0, "emergency")
	if err != nil {
		t.Fatalf("emergency match: %v", err)
	}
	if match.TechnicianID != "tech-1" {
		t.Errorf("emergency matched %s, want tech-1", match.TechnicianID)
	}
}

func TestFindAvailableTechnicianEmptyRoster(t *testing.T) {
	d := &dispatch.DefaultDispatcher{Techs: &fakeTechs{}, Logger: zap.NewNop()}

	if _, err := d.FindAvailableTechnician(context.Background(), "biz-1", "plumbing", 0, 0, "emergency"); !errors.Is(err, dispatch.ErrNoTechnicianAvailable) {
		t.Fatalf("expected ErrNoTechnicianAvailable on empty roster, got %v", err)
	}
}
