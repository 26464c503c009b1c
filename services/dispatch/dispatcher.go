package dispatch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	technicianRepo "fieldops/database/repository/technician"
	"fieldops/models"
)

// ErrNoTechnicianAvailable means no active technician covers the service
// type right now.
var ErrNoTechnicianAvailable = errors.New("no available technician")

// Dispatcher finds a candidate technician for a job. Manual "find nearest"
// flows and escalation auto-assignment use the same entry point.
type Dispatcher interface {
	FindAvailableTechnician(ctx context.Context, businessID, serviceType string, lat, lng float64, urgency string) (*models.TechnicianMatch, error)
}

// DefaultDispatcher matches on skills over the active roster. ETA and
// distance are fixed estimates until a routing integration lands.
type DefaultDispatcher struct {
	Techs  technicianRepo.TechnicianRepository
	Logger *zap.Logger
}

func (d *DefaultDispatcher) FindAvailableTechnician(ctx context.Context, businessID, serviceType string, lat, lng float64, urgency string) (*models.TechnicianMatch, error) {
	techs, err := d.Techs.FindActive(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if len(techs) == 0 {
		return nil, ErrNoTechnicianAvailable
	}

	// Prefer a skill match; a technician with no declared skills is treated
	// as a generalist. Emergencies take anyone active.
	var pick *models.Technician
	for i := range techs {
		t := &techs[i]
		if len(t.Skills) == 0 || hasSkill(t, serviceType) {
			pick = t
			break
		}
	}
	if pick == nil {
		if urgency != "emergency" {
			return nil, ErrNoTechnicianAvailable
		}
		pick = &techs[0]
	}

	d.Logger.Debug("technician matched",
		zap.String("businessId", businessID),
		zap.String("serviceType", serviceType),
		zap.String("technicianId", pick.ID))
	return &models.TechnicianMatch{
		TechnicianID:   pick.ID,
		TechnicianName: pick.Name,
		Phone:          pick.Phone,
		ETAMinutes:     30,
		DistanceMiles:  5.0,
	}, nil
}

func hasSkill(t *models.Technician, serviceType string) bool {
	for _, s := range t.Skills {
		if s == serviceType {
			return true
		}
	}
	return false
}
