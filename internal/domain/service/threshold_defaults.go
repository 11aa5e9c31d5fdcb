package service

import (
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

// profileFractions задает полосы профиля как доли интервала overhaul
type profileFractions struct {
	purple float64
	red    float64
	orange float64
	yellow float64
	green  float64
}

var fractionsByProfile = map[valueobject.ThresholdProfile]profileFractions{
	valueobject.ProfileStandard:     {purple: 0.20, red: 0.40, orange: 0.30, yellow: 0.20, green: 0},
	valueobject.ProfileConservative: {purple: 0.30, red: 0.60, orange: 0.50, yellow: 0.30, green: 0},
	valueobject.ProfileAggressive:   {purple: 0.10, red: 0.30, orange: 0.20, yellow: 0.10, green: 0},
}

// ThresholdDefaults выводит и ремонтирует конфигурации порогов (Domain Service)
// Канонический источник внутренне согласованных наборов полос
type ThresholdDefaults struct{}

// NewThresholdDefaults создает новый ThresholdDefaults
func NewThresholdDefaults() *ThresholdDefaults {
	return &ThresholdDefaults{}
}

// DeriveDefaults выводит конфигурацию порогов из интервала overhaul и профиля.
// Каждая полоса вычисляется как доля интервала, но не меньше 1, чтобы исключить вырожденные
// полосы нулевой ширины
func (d *ThresholdDefaults) DeriveDefaults(
	intervalHours float64,
	profile valueobject.ThresholdProfile,
) (valueobject.ThresholdConfig, error) {
	if intervalHours <= 0 {
		return valueobject.ThresholdConfig{}, fmt.Errorf(
			"%w: overhaul interval must be positive, got %v", ErrInvalidConfiguration, intervalHours)
	}
	if err := profile.Validate(); err != nil {
		return valueobject.ThresholdConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	fractions := fractionsByProfile[profile]

	return valueobject.ThresholdConfig{
		Purple: flooredBand(intervalHours, fractions.purple),
		Red:    flooredBand(intervalHours, fractions.red),
		Orange: flooredBand(intervalHours, fractions.orange),
		Yellow: flooredBand(intervalHours, fractions.yellow),
		Green:  flooredBand(intervalHours, fractions.green),
	}, nil
}

// ValidateAndRepair обнаруживает типовую ошибку конфигурации: пороги заданы
// относительно полного ресурса параметра, а не интервала overhaul. Признак:
// red больше самого интервала. Такая конфигурация отбрасывается и заменяется
// стандартным набором; подмена возвращается флагом, а не скрывается
func (d *ThresholdDefaults) ValidateAndRepair(
	cfg valueobject.ThresholdConfig,
	intervalHours, limitValue float64,
) (valueobject.ThresholdConfig, bool, error) {
	if intervalHours <= 0 {
		return valueobject.ThresholdConfig{}, false, fmt.Errorf(
			"%w: overhaul interval must be positive, got %v", ErrInvalidConfiguration, intervalHours)
	}

	if cfg.Red <= intervalHours {
		return cfg, false, nil
	}

	repaired, err := d.DeriveDefaults(intervalHours, valueobject.ProfileStandard)
	if err != nil {
		return valueobject.ThresholdConfig{}, false, err
	}

	return repaired, true, nil
}

// flooredBand вычисляет полосу как долю интервала с нижней границей 1
func flooredBand(intervalHours, fraction float64) float64 {
	band := intervalHours * fraction
	if band < 1 {
		return 1
	}
	return band
}
