package valueobject

import "errors"

// AlertColor представляет цвет семафора срочности обслуживания (Value Object)
// Порядок серьезности: purple > red > orange > yellow > green
type AlertColor string

const (
	ColorPurple AlertColor = "purple"
	ColorRed    AlertColor = "red"
	ColorOrange AlertColor = "orange"
	ColorYellow AlertColor = "yellow"
	ColorGreen  AlertColor = "green"
)

// Validate проверяет валидность цвета
func (c AlertColor) Validate() error {
	switch c {
	case ColorPurple, ColorRed, ColorOrange, ColorYellow, ColorGreen:
		return nil
	default:
		return errors.New("invalid alert color")
	}
}

// SeverityRank возвращает ранг серьезности (0 = самый серьезный, 4 = OK)
func (c AlertColor) SeverityRank() int {
	switch c {
	case ColorPurple:
		return 0
	case ColorRed:
		return 1
	case ColorOrange:
		return 2
	case ColorYellow:
		return 3
	default:
		return 4
	}
}

// RequiresAttention сообщает, требует ли цвет внимания инженера
func (c AlertColor) RequiresAttention() bool {
	switch c {
	case ColorPurple, ColorRed, ColorOrange:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление цвета
func (c AlertColor) String() string {
	return string(c)
}
