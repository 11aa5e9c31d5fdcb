package valueobject

import "errors"

// ThresholdConfig представляет пять полос семафора (Value Object)
// Red, Orange, Yellow и Green задают расстояние до границы overhaul
// (в часах или процентах интервала), Purple измеряет допуск ПОСЛЕ границы:
// на сколько часов можно просрочить overhaul до перехода в purple
type ThresholdConfig struct {
	Purple float64 `json:"purple"`
	Red    float64 `json:"red"`
	Orange float64 `json:"orange"`
	Yellow float64 `json:"yellow"`
	Green  float64 `json:"green"`
}

// Validate проверяет инвариант ручной конфигурации: red > orange > yellow >= green
func (tc ThresholdConfig) Validate() error {
	if tc.Purple < 0 || tc.Red < 0 || tc.Orange < 0 || tc.Yellow < 0 || tc.Green < 0 {
		return errors.New("threshold bands cannot be negative")
	}
	if tc.Red <= tc.Orange {
		return errors.New("red threshold must exceed orange")
	}
	if tc.Orange <= tc.Yellow {
		return errors.New("orange threshold must exceed yellow")
	}
	if tc.Yellow < tc.Green {
		return errors.New("yellow threshold must be at least green")
	}
	return nil
}

// IsZero сообщает, что ни одна полоса не задана
func (tc ThresholdConfig) IsZero() bool {
	return tc == ThresholdConfig{}
}
