package valueobject

import "errors"

// Unit представляет единицу измерения контролируемого параметра (Value Object)
type Unit string

const (
	Hours   Unit = "HOURS"
	Percent Unit = "PERCENT"
)

// Validate проверяет валидность единицы измерения
func (u Unit) Validate() error {
	switch u {
	case Hours, Percent:
		return nil
	default:
		return errors.New("invalid parameter unit")
	}
}

// String возвращает строковое представление единицы измерения
func (u Unit) String() string {
	return string(u)
}

// AllUnits возвращает список всех допустимых единиц измерения
func AllUnits() []Unit {
	return []Unit{Hours, Percent}
}
