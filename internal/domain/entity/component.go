package entity

import (
	"errors"

	"github.com/google/uuid"
)

// Component представляет установленный на судно агрегат
// Компонент установлен не более чем на одно судно одновременно,
// поэтому распространение налета разных судов не пересекается
type Component struct {
	id              string
	aircraftID      string
	name            string
	cumulativeHours float64
	lifeLimit       *float64 // nil, если ресурс компонента не отслеживается в часах
	remainingLife   float64
}

// NewComponent создает новый компонент (Factory Method)
func NewComponent(aircraftID, name string, lifeLimit *float64) (*Component, error) {
	if aircraftID == "" {
		return nil, errors.New("aircraft id cannot be empty")
	}
	if name == "" {
		return nil, errors.New("component name cannot be empty")
	}
	if lifeLimit != nil && *lifeLimit <= 0 {
		return nil, errors.New("life limit must be positive when present")
	}

	c := &Component{
		id:         uuid.New().String(),
		aircraftID: aircraftID,
		name:       name,
		lifeLimit:  lifeLimit,
	}
	if lifeLimit != nil {
		c.remainingLife = *lifeLimit
	}
	return c, nil
}

// ReconstructComponent восстанавливает компонент из хранилища (для Repository)
func ReconstructComponent(
	id, aircraftID, name string,
	cumulativeHours float64,
	lifeLimit *float64,
	remainingLife float64,
) *Component {
	return &Component{
		id:              id,
		aircraftID:      aircraftID,
		name:            name,
		cumulativeHours: cumulativeHours,
		lifeLimit:       lifeLimit,
		remainingLife:   remainingLife,
	}
}

// ID возвращает идентификатор компонента
func (c *Component) ID() string {
	return c.id
}

// AircraftID возвращает идентификатор судна, на которое установлен компонент
func (c *Component) AircraftID() string {
	return c.aircraftID
}

// Name возвращает название компонента
func (c *Component) Name() string {
	return c.name
}

// CumulativeHours возвращает накопленную наработку компонента
func (c *Component) CumulativeHours() float64 {
	return c.cumulativeHours
}

// LifeLimit возвращает ресурс компонента в часах (nil, если не отслеживается)
func (c *Component) LifeLimit() *float64 {
	return c.lifeLimit
}

// RemainingLife возвращает остаток ресурса компонента
func (c *Component) RemainingLife() float64 {
	return c.remainingLife
}

// HasLifeRecord сообщает, отслеживается ли ресурс компонента в часах
// Компонент без такой записи пропускается при распространении налета
func (c *Component) HasLifeRecord() bool {
	return c.lifeLimit != nil
}
