package repository

import (
	"context"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
)

// ComponentRepository определяет интерфейс для работы с хранилищем компонентов (Port)
type ComponentRepository interface {
	// FindByID находит компонент по идентификатору
	FindByID(ctx context.Context, id string) (*entity.Component, error)

	// AtomicIncrementHours атомарно увеличивает наработку компонента и
	// пересчитывает остаток ресурса одним оператором хранилища.
	// Возвращает ErrValidation, если ресурс компонента не отслеживается в часах
	AtomicIncrementHours(ctx context.Context, id string, delta float64) error
}
