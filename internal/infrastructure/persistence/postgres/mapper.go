package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

// ParameterDBModel представляет контролируемый параметр в БД
type ParameterDBModel struct {
	ID               string
	ComponentID      string
	ControlCode      string
	CurrentValue     float64
	LimitValue       float64
	Unit             string
	Overhaul         []byte // JSON
	LifecycleState   string
	RequiresOverhaul bool
	AlertColor       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToParameterDBModel конвертирует Domain Entity в DB Model
func ToParameterDBModel(p *entity.MonitoredParameter) (*ParameterDBModel, error) {
	var overhaulBytes []byte
	var err error

	if oc := p.Overhaul(); oc != nil {
		overhaulBytes, err = json.Marshal(oc)
		if err != nil {
			return nil, err
		}
	}

	return &ParameterDBModel{
		ID:               p.ID(),
		ComponentID:      p.ComponentID(),
		ControlCode:      p.ControlCode(),
		CurrentValue:     p.CurrentValue(),
		LimitValue:       p.LimitValue(),
		Unit:             p.Unit().String(),
		Overhaul:         overhaulBytes,
		LifecycleState:   p.LifecycleState().String(),
		RequiresOverhaul: p.RequiresOverhaul(),
		AlertColor:       p.AlertColor().String(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}, nil
}

// ToParameterEntity конвертирует DB Model в Domain Entity
func ToParameterEntity(model *ParameterDBModel) (*entity.MonitoredParameter, error) {
	var overhaul *valueobject.OverhaulConfig
	if len(model.Overhaul) > 0 {
		overhaul = &valueobject.OverhaulConfig{}
		if err := json.Unmarshal(model.Overhaul, overhaul); err != nil {
			return nil, err
		}
	}

	p := entity.ReconstructParameter(
		model.ID,
		model.ComponentID,
		model.ControlCode,
		model.CurrentValue,
		model.LimitValue,
		valueobject.Unit(model.Unit),
		overhaul,
		valueobject.LifecycleState(model.LifecycleState),
		model.RequiresOverhaul,
		valueobject.AlertColor(model.AlertColor),
		model.CreatedAt,
		model.UpdatedAt,
	)

	return p, nil
}

// ScanParameterRow сканирует строку БД в ParameterDBModel
func ScanParameterRow(row interface {
	Scan(dest ...interface{}) error
}) (*ParameterDBModel, error) {
	var model ParameterDBModel
	var overhaul sql.NullString

	err := row.Scan(
		&model.ID,
		&model.ComponentID,
		&model.ControlCode,
		&model.CurrentValue,
		&model.LimitValue,
		&model.Unit,
		&overhaul,
		&model.LifecycleState,
		&model.RequiresOverhaul,
		&model.AlertColor,
		&model.CreatedAt,
		&model.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	if overhaul.Valid {
		model.Overhaul = []byte(overhaul.String)
	}

	return &model, nil
}

// ScanComponentRow сканирует строку БД в Component Entity
func ScanComponentRow(row interface {
	Scan(dest ...interface{}) error
}) (*entity.Component, error) {
	var (
		id, aircraftID, name string
		cumulativeHours      float64
		lifeLimit            sql.NullFloat64
		remainingLife        sql.NullFloat64
	)

	err := row.Scan(&id, &aircraftID, &name, &cumulativeHours, &lifeLimit, &remainingLife)
	if err != nil {
		return nil, err
	}

	var limit *float64
	if lifeLimit.Valid {
		limit = &lifeLimit.Float64
	}

	return entity.ReconstructComponent(id, aircraftID, name, cumulativeHours, limit, remainingLife.Float64), nil
}
