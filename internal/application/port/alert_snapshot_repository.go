package port

import (
	"context"
	"time"
)

// SnapshotScopeFleet is the scope key of the whole-fleet snapshot.
const SnapshotScopeFleet = "fleet"

// AlertSnapshotRecord is one alert inside a persisted snapshot.
type AlertSnapshotRecord struct {
	AircraftID             string  `json:"aircraft_id"`
	ComponentID            string  `json:"component_id"`
	ComponentName          string  `json:"component_name"`
	ParameterID            string  `json:"parameter_id"`
	ControlCode            string  `json:"control_code"`
	Color                  string  `json:"color"`
	SeverityRank           int     `json:"severity_rank"`
	LifecycleState         string  `json:"lifecycle_state"`
	HoursUntilNextOverhaul float64 `json:"hours_until_next_overhaul"`
	Description            string  `json:"description"`
}

// FleetAlertSnapshot is the latest computed alert state for a scope
// ("fleet" or a single aircraft id). Only the current state is kept;
// it is overwritten on every refresh.
type FleetAlertSnapshot struct {
	Scope       string                `json:"scope"`
	GeneratedAt time.Time             `json:"generated_at"`
	AlertCount  int                   `json:"alert_count"`
	Alerts      []AlertSnapshotRecord `json:"alerts"`
}

// AlertSnapshotRepository persists the latest alert snapshot per scope so
// read surfaces can serve current alert state without re-running the engine.
type AlertSnapshotRepository interface {
	// PutSnapshot stores (overwrites) the snapshot for its scope.
	PutSnapshot(ctx context.Context, snapshot FleetAlertSnapshot) error

	// GetSnapshot loads the latest snapshot for a scope.
	GetSnapshot(ctx context.Context, scope string) (*FleetAlertSnapshot, error)
}
