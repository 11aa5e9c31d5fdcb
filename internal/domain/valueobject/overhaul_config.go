package valueobject

import "errors"

// OverhaulConfig представляет циклическую конфигурацию overhaul параметра (Value Object)
// Присутствует только у параметров, к которым overhaul применим
type OverhaulConfig struct {
	Enabled             bool             `json:"enabled"`
	IntervalHours       float64          `json:"interval_hours"`
	CurrentCycle        int              `json:"current_cycle"`
	MaxCycles           int              `json:"max_cycles"`
	HoursAtLastOverhaul float64          `json:"hours_at_last_overhaul"`
	Thresholds          *ThresholdConfig `json:"thresholds,omitempty"`
}

// Validate проверяет внутреннюю согласованность конфигурации
func (oc OverhaulConfig) Validate() error {
	if !oc.Enabled {
		return nil
	}
	if oc.IntervalHours <= 0 {
		return errors.New("overhaul interval must be positive")
	}
	if oc.CurrentCycle < 0 {
		return errors.New("current cycle cannot be negative")
	}
	if oc.MaxCycles < 0 {
		return errors.New("max cycles cannot be negative")
	}
	if oc.MaxCycles > 0 && oc.CurrentCycle > oc.MaxCycles {
		return errors.New("current cycle cannot exceed max cycles")
	}
	if oc.HoursAtLastOverhaul < 0 {
		return errors.New("hours at last overhaul cannot be negative")
	}
	return nil
}

// NextBoundary возвращает накопленное значение, при котором наступает следующий overhaul
func (oc OverhaulConfig) NextBoundary() float64 {
	return float64(oc.CurrentCycle+1) * oc.IntervalHours
}

// CyclesExhausted сообщает, израсходован ли лимит overhaul-циклов
func (oc OverhaulConfig) CyclesExhausted() bool {
	return oc.CurrentCycle >= oc.MaxCycles
}
