package repository

import (
	"context"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
)

// AircraftRepository определяет интерфейс для работы с хранилищем судов (Port)
// Реализация будет в Infrastructure слое
type AircraftRepository interface {
	// FindByID находит судно по идентификатору
	FindByID(ctx context.Context, id string) (*entity.Aircraft, error)

	// ListAll возвращает все суда флота
	ListAll(ctx context.Context) ([]*entity.Aircraft, error)

	// ListInstalledComponents возвращает компоненты, установленные на судно
	ListInstalledComponents(ctx context.Context, aircraftID string) ([]*entity.Component, error)

	// UpdateCumulativeHours записывает новое показание накопленного налета
	UpdateCumulativeHours(ctx context.Context, id string, hours float64) error
}
