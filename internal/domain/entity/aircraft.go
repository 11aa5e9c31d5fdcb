package entity

import (
	"errors"

	"github.com/google/uuid"
)

// Aircraft представляет воздушное судно (внешний коллаборатор движка)
// Движок читает и обновляет накопленный налет, но не создает и не удаляет записи
type Aircraft struct {
	id                    string
	tailNumber            string
	cumulativeFlightHours float64
}

// NewAircraft создает новое воздушное судно (Factory Method)
func NewAircraft(tailNumber string, cumulativeFlightHours float64) (*Aircraft, error) {
	if tailNumber == "" {
		return nil, errors.New("tail number cannot be empty")
	}
	if cumulativeFlightHours < 0 {
		return nil, errors.New("cumulative flight hours cannot be negative")
	}

	return &Aircraft{
		id:                    uuid.New().String(),
		tailNumber:            tailNumber,
		cumulativeFlightHours: cumulativeFlightHours,
	}, nil
}

// ReconstructAircraft восстанавливает воздушное судно из хранилища (для Repository)
func ReconstructAircraft(id, tailNumber string, cumulativeFlightHours float64) *Aircraft {
	return &Aircraft{
		id:                    id,
		tailNumber:            tailNumber,
		cumulativeFlightHours: cumulativeFlightHours,
	}
}

// ID возвращает идентификатор судна
func (a *Aircraft) ID() string {
	return a.id
}

// TailNumber возвращает бортовой номер
func (a *Aircraft) TailNumber() string {
	return a.tailNumber
}

// CumulativeFlightHours возвращает накопленный налет судна
func (a *Aircraft) CumulativeFlightHours() float64 {
	return a.cumulativeFlightHours
}

// IncrementFor вычисляет неотрицательный прирост до нового показания
// Отрицательный результат означает откат налета, запрещенную операцию
func (a *Aircraft) IncrementFor(newCumulativeHours float64) float64 {
	return newCumulativeHours - a.cumulativeFlightHours
}
