package port

import (
	"context"
)

// Subjects published by the maintenance engine
const (
	SubjectPropagationCompleted = "maintenance.propagation.completed"
	SubjectOverhaulCompleted    = "maintenance.overhaul.completed"
	SubjectFleetAlertsRefreshed = "maintenance.fleet.alerts.refreshed"
)

// EventPublisher defines the interface for publishing events to a message broker
type EventPublisher interface {
	// PublishEvent publishes an event to the specified subject
	PublishEvent(ctx context.Context, subject string, event interface{}) error

	// Close closes the connection to the message broker
	Close() error
}
