package valueobject

import "errors"

// ThresholdProfile представляет именованный профиль порогов (Value Object)
// Определяет, насколько рано семафор начинает предупреждать об overhaul
type ThresholdProfile string

const (
	ProfileStandard     ThresholdProfile = "STANDARD"
	ProfileConservative ThresholdProfile = "CONSERVATIVE"
	ProfileAggressive   ThresholdProfile = "AGGRESSIVE"
)

// Validate проверяет валидность профиля
func (p ThresholdProfile) Validate() error {
	switch p {
	case ProfileStandard, ProfileConservative, ProfileAggressive:
		return nil
	default:
		return errors.New("invalid threshold profile")
	}
}

// String возвращает строковое представление профиля
func (p ThresholdProfile) String() string {
	return string(p)
}
