package service

import (
	"errors"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

// ErrInvalidConfiguration возвращается, когда конфигурация порогов
// или интервал не позволяют выполнить оценку
var ErrInvalidConfiguration = errors.New("invalid threshold configuration")

// ThresholdEvaluation представляет результат оценки семафора
type ThresholdEvaluation struct {
	Color             valueobject.AlertColor
	Description       string
	SeverityRank      int
	RequiresAttention bool
	PercentConsumed   float64
}

// ThresholdEvaluator оценивает остаток до границы overhaul по пятицветному
// семафору (Domain Service). Чистая функция без побочных эффектов
type ThresholdEvaluator struct{}

// NewThresholdEvaluator создает новый ThresholdEvaluator
func NewThresholdEvaluator() *ThresholdEvaluator {
	return &ThresholdEvaluator{}
}

// Evaluate оценивает остаток до границы overhaul.
// remaining задает остаток в часах со знаком (отрицательный = граница пройдена),
// referenceInterval задает длину интервала overhaul (знаменатель для процентов)
func (e *ThresholdEvaluator) Evaluate(
	remaining, referenceInterval float64,
	unit valueobject.Unit,
	cfg valueobject.ThresholdConfig,
) (*ThresholdEvaluation, error) {
	if referenceInterval <= 0 {
		return nil, fmt.Errorf("%w: reference interval must be positive, got %v",
			ErrInvalidConfiguration, referenceInterval)
	}
	if err := unit.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	percentConsumed := (referenceInterval - remaining) / referenceInterval * 100

	var color valueobject.AlertColor
	switch unit {
	case valueobject.Hours:
		color = e.evaluateHours(remaining, cfg)
	case valueobject.Percent:
		color = e.evaluatePercent(percentConsumed, cfg)
	}

	return &ThresholdEvaluation{
		Color:             color,
		Description:       describeColor(color, remaining),
		SeverityRank:      color.SeverityRank(),
		RequiresAttention: color.RequiresAttention(),
		PercentConsumed:   percentConsumed,
	}, nil
}

// evaluateHours выполняет расслоение по полосам в часах до границы
func (e *ThresholdEvaluator) evaluateHours(remaining float64, cfg valueobject.ThresholdConfig) valueobject.AlertColor {
	// Граница уже пройдена: purple, если просрочка превышает допуск purple
	if remaining < 0 {
		if -remaining > cfg.Purple {
			return valueobject.ColorPurple
		}
		return valueobject.ColorRed
	}

	// Полосы обходятся от срочной к спокойной; побеждает первая,
	// чья граница не меньше остатка. Равенство относится к более срочной полосе
	bands := []struct {
		cutoff float64
		color  valueobject.AlertColor
	}{
		{cfg.Red, valueobject.ColorRed},
		{cfg.Orange, valueobject.ColorOrange},
		{cfg.Yellow, valueobject.ColorYellow},
		{cfg.Green, valueobject.ColorGreen},
	}

	for _, band := range bands {
		if remaining <= band.cutoff {
			return band.color
		}
	}

	// Запас достаточен, ни одна полоса не сработала
	return valueobject.ColorGreen
}

// evaluatePercent выполняет то же расслоение в процентах израсходованного интервала
func (e *ThresholdEvaluator) evaluatePercent(percentConsumed float64, cfg valueobject.ThresholdConfig) valueobject.AlertColor {
	if percentConsumed > 100+cfg.Purple {
		return valueobject.ColorPurple
	}
	if percentConsumed > 100 {
		return valueobject.ColorRed
	}

	remainingPercent := 100 - percentConsumed

	bands := []struct {
		cutoff float64
		color  valueobject.AlertColor
	}{
		{cfg.Red, valueobject.ColorRed},
		{cfg.Orange, valueobject.ColorOrange},
		{cfg.Yellow, valueobject.ColorYellow},
		{cfg.Green, valueobject.ColorGreen},
	}

	for _, band := range bands {
		if remainingPercent <= band.cutoff {
			return band.color
		}
	}

	return valueobject.ColorGreen
}

// describeColor возвращает человекочитаемое описание состояния семафора
func describeColor(color valueobject.AlertColor, remaining float64) string {
	switch color {
	case valueobject.ColorPurple:
		return fmt.Sprintf("overhaul overdue by %.1f hours beyond tolerance", -remaining)
	case valueobject.ColorRed:
		if remaining < 0 {
			return fmt.Sprintf("overhaul overdue by %.1f hours", -remaining)
		}
		return fmt.Sprintf("overhaul due imminently, %.1f hours remaining", remaining)
	case valueobject.ColorOrange:
		return fmt.Sprintf("overhaul approaching, %.1f hours remaining", remaining)
	case valueobject.ColorYellow:
		return fmt.Sprintf("overhaul upcoming, %.1f hours remaining", remaining)
	default:
		return fmt.Sprintf("within limits, %.1f hours remaining", remaining)
	}
}
