package repository

import (
	"context"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
)

// MonitoredParameterRepository определяет интерфейс для работы с хранилищем
// контролируемых параметров (Port)
type MonitoredParameterRepository interface {
	// FindByID находит параметр по идентификатору
	FindByID(ctx context.Context, id string) (*entity.MonitoredParameter, error)

	// FindByComponent возвращает все параметры компонента
	FindByComponent(ctx context.Context, componentID string) ([]*entity.MonitoredParameter, error)

	// FindByAircraft возвращает overhaul-параметры всех компонентов судна
	FindByAircraft(ctx context.Context, aircraftID string) ([]*entity.MonitoredParameter, error)

	// FindAllWithOverhaulEnabled возвращает overhaul-параметры всего флота
	FindAllWithOverhaulEnabled(ctx context.Context) ([]*entity.MonitoredParameter, error)

	// AtomicIncrementValue атомарно увеличивает накопленное значение параметра.
	// Именно атомарный инкремент, а не чтение-изменение-запись: конкурентные
	// распространения не должны терять или удваивать приросты
	AtomicIncrementValue(ctx context.Context, id string, delta float64) error

	// Save сохраняет параметр вместе с пересчитанным производным состоянием
	Save(ctx context.Context, parameter *entity.MonitoredParameter) error
}
