package valueobject

import "errors"

// LifecycleState представляет состояние жизненного цикла параметра (Value Object)
type LifecycleState string

const (
	StateOK               LifecycleState = "OK"
	StateDueSoon          LifecycleState = "DUE_SOON"
	StateOverdue          LifecycleState = "OVERDUE"
	StateOverhaulRequired LifecycleState = "OVERHAUL_REQUIRED"
	StateLifeExpired      LifecycleState = "LIFE_EXPIRED"
)

// Validate проверяет валидность состояния
func (s LifecycleState) Validate() error {
	switch s {
	case StateOK, StateDueSoon, StateOverdue, StateOverhaulRequired, StateLifeExpired:
		return nil
	default:
		return errors.New("invalid lifecycle state")
	}
}

// IsTerminal сообщает, исчерпан ли ресурс параметра окончательно
func (s LifecycleState) IsTerminal() bool {
	return s == StateLifeExpired
}

// String возвращает строковое представление состояния
func (s LifecycleState) String() string {
	return string(s)
}
