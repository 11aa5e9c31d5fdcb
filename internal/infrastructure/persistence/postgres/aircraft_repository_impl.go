package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	_ "github.com/lib/pq"
)

// PostgresAircraftRepository реализует repository.AircraftRepository для PostgreSQL
type PostgresAircraftRepository struct {
	db *sql.DB
}

// NewPostgresAircraftRepository создает новый PostgreSQL repository
func NewPostgresAircraftRepository(db *sql.DB) *PostgresAircraftRepository {
	return &PostgresAircraftRepository{
		db: db,
	}
}

// FindByID находит судно по идентификатору
func (r *PostgresAircraftRepository) FindByID(ctx context.Context, id string) (*entity.Aircraft, error) {
	query := `
		SELECT id, tail_number, cumulative_flight_hours
		FROM aircraft
		WHERE id = $1
	`

	var (
		aircraftID, tailNumber string
		hours                  float64
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(&aircraftID, &tailNumber, &hours)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("aircraft %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan aircraft: %w", err)
	}

	return entity.ReconstructAircraft(aircraftID, tailNumber, hours), nil
}

// ListAll возвращает все суда флота
func (r *PostgresAircraftRepository) ListAll(ctx context.Context) ([]*entity.Aircraft, error) {
	query := `
		SELECT id, tail_number, cumulative_flight_hours
		FROM aircraft
		ORDER BY tail_number
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft: %w", err)
	}
	defer rows.Close()

	var fleet []*entity.Aircraft
	for rows.Next() {
		var (
			id, tailNumber string
			hours          float64
		)
		if err := rows.Scan(&id, &tailNumber, &hours); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft row: %w", err)
		}
		fleet = append(fleet, entity.ReconstructAircraft(id, tailNumber, hours))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return fleet, nil
}

// ListInstalledComponents возвращает компоненты, установленные на судно
func (r *PostgresAircraftRepository) ListInstalledComponents(ctx context.Context, aircraftID string) ([]*entity.Component, error) {
	query := `
		SELECT id, aircraft_id, name, cumulative_hours, life_limit, remaining_life
		FROM components
		WHERE aircraft_id = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query components: %w", err)
	}
	defer rows.Close()

	var components []*entity.Component
	for rows.Next() {
		component, err := ScanComponentRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan component row: %w", err)
		}
		components = append(components, component)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return components, nil
}

// UpdateCumulativeHours записывает новое показание накопленного налета
func (r *PostgresAircraftRepository) UpdateCumulativeHours(ctx context.Context, id string, hours float64) error {
	query := `
		UPDATE aircraft
		SET cumulative_flight_hours = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, hours)
	if err != nil {
		return fmt.Errorf("failed to update aircraft hours: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("aircraft %s: %w", id, repository.ErrNotFound)
	}

	return nil
}
