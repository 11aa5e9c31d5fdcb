package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
)

// PostgresComponentRepository реализует repository.ComponentRepository для PostgreSQL
type PostgresComponentRepository struct {
	db *sql.DB
}

// NewPostgresComponentRepository создает новый PostgreSQL repository
func NewPostgresComponentRepository(db *sql.DB) *PostgresComponentRepository {
	return &PostgresComponentRepository{
		db: db,
	}
}

// FindByID находит компонент по идентификатору
func (r *PostgresComponentRepository) FindByID(ctx context.Context, id string) (*entity.Component, error) {
	query := `
		SELECT id, aircraft_id, name, cumulative_hours, life_limit, remaining_life
		FROM components
		WHERE id = $1
	`

	component, err := ScanComponentRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("component %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan component: %w", err)
	}

	return component, nil
}

// AtomicIncrementHours атомарно увеличивает наработку компонента.
// Инкремент и пересчет остатка ресурса выполняются одним UPDATE: конкурентные
// распространения сериализуются строчной блокировкой, приросты не теряются
func (r *PostgresComponentRepository) AtomicIncrementHours(ctx context.Context, id string, delta float64) error {
	query := `
		UPDATE components
		SET cumulative_hours = cumulative_hours + $2,
		    remaining_life   = life_limit - (cumulative_hours + $2),
		    updated_at       = NOW()
		WHERE id = $1 AND life_limit IS NOT NULL
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to increment component hours: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// Ни одной строки: либо компонента нет, либо его ресурс не отслеживается
	var exists bool
	err = r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM components WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check component existence: %w", err)
	}
	if !exists {
		return fmt.Errorf("component %s: %w", id, repository.ErrNotFound)
	}

	return fmt.Errorf("component %s has no hour-tracked life record: %w", id, repository.ErrValidation)
}
