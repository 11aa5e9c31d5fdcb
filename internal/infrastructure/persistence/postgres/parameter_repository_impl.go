package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
)

const parameterColumns = `
	id, component_id, control_code, current_value, limit_value, unit,
	overhaul, lifecycle_state, requires_overhaul, alert_color, created_at, updated_at
`

// PostgresParameterRepository реализует repository.MonitoredParameterRepository для PostgreSQL
type PostgresParameterRepository struct {
	db *sql.DB
}

// NewPostgresParameterRepository создает новый PostgreSQL repository
func NewPostgresParameterRepository(db *sql.DB) *PostgresParameterRepository {
	return &PostgresParameterRepository{
		db: db,
	}
}

// FindByID находит параметр по идентификатору
func (r *PostgresParameterRepository) FindByID(ctx context.Context, id string) (*entity.MonitoredParameter, error) {
	query := `
		SELECT ` + parameterColumns + `
		FROM monitored_parameters
		WHERE id = $1
	`

	model, err := ScanParameterRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("parameter %s: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to scan parameter: %w", err)
	}

	return ToParameterEntity(model)
}

// FindByComponent возвращает все параметры компонента
func (r *PostgresParameterRepository) FindByComponent(ctx context.Context, componentID string) ([]*entity.MonitoredParameter, error) {
	query := `
		SELECT ` + parameterColumns + `
		FROM monitored_parameters
		WHERE component_id = $1
		ORDER BY control_code
	`

	rows, err := r.db.QueryContext(ctx, query, componentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query parameters: %w", err)
	}
	defer rows.Close()

	return r.scanParameters(rows)
}

// FindByAircraft возвращает overhaul-параметры всех компонентов судна
func (r *PostgresParameterRepository) FindByAircraft(ctx context.Context, aircraftID string) ([]*entity.MonitoredParameter, error) {
	query := `
		SELECT p.id, p.component_id, p.control_code, p.current_value, p.limit_value, p.unit,
		       p.overhaul, p.lifecycle_state, p.requires_overhaul, p.alert_color, p.created_at, p.updated_at
		FROM monitored_parameters p
		JOIN components c ON c.id = p.component_id
		WHERE c.aircraft_id = $1 AND (p.overhaul ->> 'enabled')::boolean = true
		ORDER BY p.control_code
	`

	rows, err := r.db.QueryContext(ctx, query, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to query aircraft parameters: %w", err)
	}
	defer rows.Close()

	return r.scanParameters(rows)
}

// FindAllWithOverhaulEnabled возвращает overhaul-параметры всего флота
func (r *PostgresParameterRepository) FindAllWithOverhaulEnabled(ctx context.Context) ([]*entity.MonitoredParameter, error) {
	query := `
		SELECT ` + parameterColumns + `
		FROM monitored_parameters
		WHERE (overhaul ->> 'enabled')::boolean = true
		ORDER BY component_id, control_code
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query overhaul parameters: %w", err)
	}
	defer rows.Close()

	return r.scanParameters(rows)
}

// AtomicIncrementValue атомарно увеличивает накопленное значение параметра
// одним UPDATE, без чтения-изменения-записи
func (r *PostgresParameterRepository) AtomicIncrementValue(ctx context.Context, id string, delta float64) error {
	query := `
		UPDATE monitored_parameters
		SET current_value = current_value + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to increment parameter value: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("parameter %s: %w", id, repository.ErrNotFound)
	}

	return nil
}

// Save сохраняет параметр вместе с пересчитанным производным состоянием.
// Накопленное значение не перезаписывается: истиной для него служат атомарные
// инкременты, а не снимок entity в памяти
func (r *PostgresParameterRepository) Save(ctx context.Context, parameter *entity.MonitoredParameter) error {
	model, err := ToParameterDBModel(parameter)
	if err != nil {
		return fmt.Errorf("failed to convert to DB model: %w", err)
	}

	query := `
		INSERT INTO monitored_parameters (` + parameterColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			overhaul          = EXCLUDED.overhaul,
			lifecycle_state   = EXCLUDED.lifecycle_state,
			requires_overhaul = EXCLUDED.requires_overhaul,
			alert_color       = EXCLUDED.alert_color,
			updated_at        = EXCLUDED.updated_at
	`

	_, err = r.db.ExecContext(ctx, query,
		model.ID,
		model.ComponentID,
		model.ControlCode,
		model.CurrentValue,
		model.LimitValue,
		model.Unit,
		model.Overhaul,
		model.LifecycleState,
		model.RequiresOverhaul,
		model.AlertColor,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save parameter: %w", err)
	}

	return nil
}

// scanParameters сканирует несколько строк в слайс параметров
func (r *PostgresParameterRepository) scanParameters(rows *sql.Rows) ([]*entity.MonitoredParameter, error) {
	var parameters []*entity.MonitoredParameter

	for rows.Next() {
		model, err := ScanParameterRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan parameter row: %w", err)
		}

		parameter, err := ToParameterEntity(model)
		if err != nil {
			return nil, fmt.Errorf("failed to convert to entity: %w", err)
		}

		parameters = append(parameters, parameter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return parameters, nil
}
