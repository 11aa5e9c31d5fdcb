package dto

import (
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"
)

// AlertDTO представляет один maintenance alert для передачи между слоями
type AlertDTO struct {
	AircraftID             string    `json:"aircraft_id"`
	ComponentID            string    `json:"component_id"`
	ComponentName          string    `json:"component_name,omitempty"`
	ParameterID            string    `json:"parameter_id"`
	ControlCode            string    `json:"control_code"`
	Color                  string    `json:"color"`
	SeverityRank           int       `json:"severity_rank"`
	LifecycleState         string    `json:"lifecycle_state"`
	CurrentValue           float64   `json:"current_value"`
	TimeSinceOverhaul      float64   `json:"time_since_overhaul"`
	HoursUntilNextOverhaul float64   `json:"hours_until_next_overhaul"`
	NextOverhaulAt         float64   `json:"next_overhaul_at"`
	PercentConsumed        float64   `json:"percent_consumed"`
	RequiresOverhaulNow    bool      `json:"requires_overhaul_now"`
	Description            string    `json:"description"`
	EvaluatedAt            time.Time `json:"evaluated_at"`
}

// NewAlertDTO собирает alert из параметра и результата оценки
func NewAlertDTO(aircraftID, componentName string, p *entity.MonitoredParameter, a *service.OverhaulAssessment) *AlertDTO {
	return &AlertDTO{
		AircraftID:             aircraftID,
		ComponentID:            p.ComponentID(),
		ComponentName:          componentName,
		ParameterID:            p.ID(),
		ControlCode:            p.ControlCode(),
		Color:                  a.Color.String(),
		SeverityRank:           a.SeverityRank,
		LifecycleState:         a.LifecycleState.String(),
		CurrentValue:           p.CurrentValue(),
		TimeSinceOverhaul:      a.TimeSinceOverhaul,
		HoursUntilNextOverhaul: a.HoursUntilNextOverhaul,
		NextOverhaulAt:         a.NextOverhaulAt,
		PercentConsumed:        a.PercentConsumed,
		RequiresOverhaulNow:    a.RequiresOverhaulNow,
		Description:            a.Description,
		EvaluatedAt:            time.Now(),
	}
}
