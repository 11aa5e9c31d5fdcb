package entity

import (
	"errors"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
	"github.com/google/uuid"
)

// Ошибки жизненного цикла параметра
var (
	ErrOverhaulNotEnabled = errors.New("overhaul tracking is not enabled for this parameter")
	ErrCyclesExhausted    = errors.New("overhaul cycle limit exhausted, parameter is retired")
)

// MonitoredParameter представляет контролируемый параметр износа компонента (Aggregate Root)
// Один параметр соответствует паре компонент × контрольный код (например "time-to-removal")
type MonitoredParameter struct {
	id           string
	componentID  string
	controlCode  string
	currentValue float64
	limitValue   float64
	unit         valueobject.Unit
	overhaul     *valueobject.OverhaulConfig

	// Кешированное производное состояние; авторитетны только
	// currentValue, hoursAtLastOverhaul и currentCycle
	lifecycleState   valueobject.LifecycleState
	requiresOverhaul bool
	alertColor       valueobject.AlertColor

	createdAt time.Time
	updatedAt time.Time
}

// NewMonitoredParameter создает новый контролируемый параметр (Factory Method)
func NewMonitoredParameter(
	componentID, controlCode string,
	limitValue float64,
	unit valueobject.Unit,
	overhaul *valueobject.OverhaulConfig,
) (*MonitoredParameter, error) {
	if componentID == "" {
		return nil, errors.New("component id cannot be empty")
	}
	if controlCode == "" {
		return nil, errors.New("control code cannot be empty")
	}
	if limitValue <= 0 {
		return nil, errors.New("limit value must be positive")
	}
	if err := unit.Validate(); err != nil {
		return nil, err
	}
	if overhaul != nil {
		if err := overhaul.Validate(); err != nil {
			return nil, err
		}
	}

	now := time.Now()

	return &MonitoredParameter{
		id:             uuid.New().String(),
		componentID:    componentID,
		controlCode:    controlCode,
		limitValue:     limitValue,
		unit:           unit,
		overhaul:       overhaul,
		lifecycleState: valueobject.StateOK,
		alertColor:     valueobject.ColorGreen,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructParameter восстанавливает параметр из хранилища (для Repository)
func ReconstructParameter(
	id, componentID, controlCode string,
	currentValue, limitValue float64,
	unit valueobject.Unit,
	overhaul *valueobject.OverhaulConfig,
	lifecycleState valueobject.LifecycleState,
	requiresOverhaul bool,
	alertColor valueobject.AlertColor,
	createdAt, updatedAt time.Time,
) *MonitoredParameter {
	return &MonitoredParameter{
		id:               id,
		componentID:      componentID,
		controlCode:      controlCode,
		currentValue:     currentValue,
		limitValue:       limitValue,
		unit:             unit,
		overhaul:         overhaul,
		lifecycleState:   lifecycleState,
		requiresOverhaul: requiresOverhaul,
		alertColor:       alertColor,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID возвращает идентификатор параметра
func (p *MonitoredParameter) ID() string {
	return p.id
}

// ComponentID возвращает идентификатор компонента-владельца
func (p *MonitoredParameter) ComponentID() string {
	return p.componentID
}

// ControlCode возвращает контрольный код параметра
func (p *MonitoredParameter) ControlCode() string {
	return p.controlCode
}

// CurrentValue возвращает накопленное значение параметра
func (p *MonitoredParameter) CurrentValue() float64 {
	return p.currentValue
}

// LimitValue возвращает предельное значение параметра
func (p *MonitoredParameter) LimitValue() float64 {
	return p.limitValue
}

// Unit возвращает единицу измерения параметра
func (p *MonitoredParameter) Unit() valueobject.Unit {
	return p.unit
}

// Overhaul возвращает конфигурацию overhaul (nil, если не применима)
func (p *MonitoredParameter) Overhaul() *valueobject.OverhaulConfig {
	return p.overhaul
}

// LifecycleState возвращает кешированное состояние жизненного цикла
func (p *MonitoredParameter) LifecycleState() valueobject.LifecycleState {
	return p.lifecycleState
}

// RequiresOverhaul возвращает кешированный флаг необходимости overhaul
func (p *MonitoredParameter) RequiresOverhaul() bool {
	return p.requiresOverhaul
}

// AlertColor возвращает кешированный цвет семафора
func (p *MonitoredParameter) AlertColor() valueobject.AlertColor {
	return p.alertColor
}

// CreatedAt возвращает время создания записи
func (p *MonitoredParameter) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt возвращает время последнего обновления записи
func (p *MonitoredParameter) UpdatedAt() time.Time {
	return p.updatedAt
}

// Domain Methods (бизнес-логика)

// OverhaulEnabled сообщает, применим ли overhaul к параметру
func (p *MonitoredParameter) OverhaulEnabled() bool {
	return p.overhaul != nil && p.overhaul.Enabled
}

// TimeSinceOverhaul возвращает наработку с последнего overhaul (TSO)
func (p *MonitoredParameter) TimeSinceOverhaul() float64 {
	if p.overhaul == nil {
		return p.currentValue
	}
	return p.currentValue - p.overhaul.HoursAtLastOverhaul
}

// HoursUntilNextOverhaul возвращает остаток до следующего overhaul
// Отрицательное значение означает просроченный overhaul
func (p *MonitoredParameter) HoursUntilNextOverhaul() float64 {
	if p.overhaul == nil {
		return p.limitValue - p.currentValue
	}
	return p.overhaul.IntervalHours - p.TimeSinceOverhaul()
}

// RefreshDerivedState обновляет кешированное производное состояние после пересчета
func (p *MonitoredParameter) RefreshDerivedState(
	state valueobject.LifecycleState,
	color valueobject.AlertColor,
	requiresOverhaul bool,
) {
	p.lifecycleState = state
	p.alertColor = color
	p.requiresOverhaul = requiresOverhaul
	p.updatedAt = time.Now()
}

// CompleteOverhaul фиксирует завершение overhaul: инкрементирует цикл,
// переносит hoursAtLastOverhaul на новую границу и снимает флаг requiresOverhaul
func (p *MonitoredParameter) CompleteOverhaul() error {
	if !p.OverhaulEnabled() {
		return ErrOverhaulNotEnabled
	}
	if p.overhaul.CyclesExhausted() {
		return ErrCyclesExhausted
	}

	p.overhaul.CurrentCycle++
	p.overhaul.HoursAtLastOverhaul = float64(p.overhaul.CurrentCycle) * p.overhaul.IntervalHours
	p.requiresOverhaul = false
	p.updatedAt = time.Now()

	return nil
}
