package service

import (
	"errors"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

// ErrNotApplicable возвращается при оценке параметра, для которого overhaul не включен
var ErrNotApplicable = errors.New("overhaul model is not applicable to this parameter")

// DefaultAnticipationHours задает горизонт бинарного правила, когда пороги не заданы
const DefaultAnticipationHours = 50

// OverhaulAssessment представляет результат оценки цикла overhaul
type OverhaulAssessment struct {
	NextOverhaulAt         float64
	TimeSinceOverhaul      float64
	HoursUntilNextOverhaul float64
	RequiresOverhaulNow    bool
	LifecycleState         valueobject.LifecycleState
	Color                  valueobject.AlertColor
	SeverityRank           int
	RequiresAttention      bool
	PercentConsumed        float64
	Description            string

	// ThresholdsRepaired сообщает вызывающему, что конфигурация порогов была
	// отбракована и заменена стандартным набором
	ThresholdsRepaired bool
}

// OverhaulModel вычисляет состояние цикла overhaul параметра (Domain Service)
// Время считается относительно последнего overhaul (TSO), а не от нуля:
// предупреждения повторяются в каждом цикле, а не один раз у предела ресурса
type OverhaulModel struct {
	evaluator         *ThresholdEvaluator
	defaults          *ThresholdDefaults
	anticipationHours float64
}

// NewOverhaulModel создает новый OverhaulModel
func NewOverhaulModel(evaluator *ThresholdEvaluator, defaults *ThresholdDefaults) *OverhaulModel {
	return &OverhaulModel{
		evaluator:         evaluator,
		defaults:          defaults,
		anticipationHours: DefaultAnticipationHours,
	}
}

// NewOverhaulModelWithAnticipation создает OverhaulModel с нестандартным горизонтом
// бинарного правила
func NewOverhaulModelWithAnticipation(
	evaluator *ThresholdEvaluator,
	defaults *ThresholdDefaults,
	anticipationHours float64,
) *OverhaulModel {
	m := NewOverhaulModel(evaluator, defaults)
	if anticipationHours > 0 {
		m.anticipationHours = anticipationHours
	}
	return m
}

// Assess оценивает состояние цикла overhaul параметра
func (m *OverhaulModel) Assess(p *entity.MonitoredParameter) (*OverhaulAssessment, error) {
	if p == nil {
		return nil, errors.New("parameter cannot be nil")
	}
	if !p.OverhaulEnabled() {
		return nil, fmt.Errorf("%w: parameter %s", ErrNotApplicable, p.ID())
	}

	oc := p.Overhaul()
	if oc.IntervalHours <= 0 {
		return nil, fmt.Errorf("%w: overhaul interval must be positive, got %v",
			ErrInvalidConfiguration, oc.IntervalHours)
	}

	// 1. Время относительно цикла, а не абсолютное
	tso := p.CurrentValue() - oc.HoursAtLastOverhaul
	hoursUntil := oc.IntervalHours - tso
	nextAt := oc.NextBoundary()

	// 2. Жесткие условия
	requiresNow := p.CurrentValue() >= nextAt
	limitReached := p.LimitValue() > 0 && p.CurrentValue() >= p.LimitValue()
	lifeExpired := limitReached && oc.CyclesExhausted()

	assessment := &OverhaulAssessment{
		NextOverhaulAt:         nextAt,
		TimeSinceOverhaul:      tso,
		HoursUntilNextOverhaul: hoursUntil,
		RequiresOverhaulNow:    requiresNow,
	}

	// 3. Цвет семафора: по порогам, если заданы, иначе бинарное правило
	var evaluation *ThresholdEvaluation
	if oc.Thresholds != nil {
		cfg, repaired, err := m.defaults.ValidateAndRepair(*oc.Thresholds, oc.IntervalHours, p.LimitValue())
		if err != nil {
			return nil, err
		}
		assessment.ThresholdsRepaired = repaired

		evaluation, err = m.evaluator.Evaluate(hoursUntil, oc.IntervalHours, p.Unit(), cfg)
		if err != nil {
			return nil, err
		}
	}

	// 4. Состояние жизненного цикла: первый совпавший случай побеждает
	switch {
	case lifeExpired:
		assessment.LifecycleState = valueobject.StateLifeExpired
	case requiresNow, limitReached:
		assessment.LifecycleState = valueobject.StateOverhaulRequired
	case hoursUntil < 0:
		// Остаток отрицателен, но граница цикла формально не достигнута:
		// hoursAtLastOverhaul разошелся с границей цикла (дефект данных)
		assessment.LifecycleState = valueobject.StateOverdue
	case evaluation != nil && evaluation.RequiresAttention:
		assessment.LifecycleState = valueobject.StateDueSoon
	case evaluation == nil && m.binaryAlert(hoursUntil):
		assessment.LifecycleState = valueobject.StateDueSoon
	default:
		assessment.LifecycleState = valueobject.StateOK
	}

	m.fillColor(assessment, evaluation, hoursUntil, oc.IntervalHours)

	return assessment, nil
}

// binaryAlert реализует запасное правило без порогов: предупреждать в пределах
// горизонта ожидания, пока граница не пройдена
func (m *OverhaulModel) binaryAlert(hoursUntil float64) bool {
	return hoursUntil > 0 && hoursUntil <= m.anticipationHours
}

// fillColor заполняет цветовую часть оценки
func (m *OverhaulModel) fillColor(
	a *OverhaulAssessment,
	evaluation *ThresholdEvaluation,
	hoursUntil, intervalHours float64,
) {
	if evaluation != nil {
		a.Color = evaluation.Color
		a.SeverityRank = evaluation.SeverityRank
		a.RequiresAttention = evaluation.RequiresAttention
		a.PercentConsumed = evaluation.PercentConsumed
		a.Description = evaluation.Description
	} else {
		// Без порогов цвет синтезируется из состояния
		switch a.LifecycleState {
		case valueobject.StateLifeExpired, valueobject.StateOverdue:
			a.Color = valueobject.ColorPurple
		case valueobject.StateOverhaulRequired:
			a.Color = valueobject.ColorRed
		case valueobject.StateDueSoon:
			a.Color = valueobject.ColorOrange
		default:
			a.Color = valueobject.ColorGreen
		}
		a.SeverityRank = a.Color.SeverityRank()
		a.RequiresAttention = a.Color.RequiresAttention()
		a.PercentConsumed = (intervalHours - hoursUntil) / intervalHours * 100
		a.Description = describeColor(a.Color, hoursUntil)
	}

	// Жесткие состояния требуют внимания независимо от цвета
	switch a.LifecycleState {
	case valueobject.StateLifeExpired, valueobject.StateOverhaulRequired, valueobject.StateOverdue:
		a.RequiresAttention = true
	}
}
