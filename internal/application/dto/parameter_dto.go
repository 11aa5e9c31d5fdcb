package dto

import (
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

// OverhaulConfigDTO представляет конфигурацию overhaul для передачи между слоями
type OverhaulConfigDTO struct {
	Enabled             bool                         `json:"enabled"`
	IntervalHours       float64                      `json:"interval_hours"`
	CurrentCycle        int                          `json:"current_cycle"`
	MaxCycles           int                          `json:"max_cycles"`
	HoursAtLastOverhaul float64                      `json:"hours_at_last_overhaul"`
	Thresholds          *valueobject.ThresholdConfig `json:"thresholds,omitempty"`
}

// ParameterDTO представляет контролируемый параметр для передачи между слоями
type ParameterDTO struct {
	ID           string             `json:"id"`
	ComponentID  string             `json:"component_id"`
	ControlCode  string             `json:"control_code"`
	CurrentValue float64            `json:"current_value"`
	LimitValue   float64            `json:"limit_value"`
	Unit         string             `json:"unit"`
	Overhaul     *OverhaulConfigDTO `json:"overhaul,omitempty"`
	// Производные поля (вычисляются при чтении, не хранятся как истина)
	TimeSinceOverhaul      float64   `json:"time_since_overhaul"`
	HoursUntilNextOverhaul float64   `json:"hours_until_next_overhaul"`
	LifecycleState         string    `json:"lifecycle_state"`
	RequiresOverhaul       bool      `json:"requires_overhaul"`
	AlertColor             string    `json:"alert_color"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// FromParameter конвертирует Domain Entity в DTO
func FromParameter(p *entity.MonitoredParameter) *ParameterDTO {
	d := &ParameterDTO{
		ID:                     p.ID(),
		ComponentID:            p.ComponentID(),
		ControlCode:            p.ControlCode(),
		CurrentValue:           p.CurrentValue(),
		LimitValue:             p.LimitValue(),
		Unit:                   p.Unit().String(),
		TimeSinceOverhaul:      p.TimeSinceOverhaul(),
		HoursUntilNextOverhaul: p.HoursUntilNextOverhaul(),
		LifecycleState:         p.LifecycleState().String(),
		RequiresOverhaul:       p.RequiresOverhaul(),
		AlertColor:             p.AlertColor().String(),
		UpdatedAt:              p.UpdatedAt(),
	}

	if oc := p.Overhaul(); oc != nil {
		d.Overhaul = &OverhaulConfigDTO{
			Enabled:             oc.Enabled,
			IntervalHours:       oc.IntervalHours,
			CurrentCycle:        oc.CurrentCycle,
			MaxCycles:           oc.MaxCycles,
			HoursAtLastOverhaul: oc.HoursAtLastOverhaul,
			Thresholds:          oc.Thresholds,
		}
	}

	return d
}
