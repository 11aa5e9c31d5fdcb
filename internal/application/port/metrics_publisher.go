package port

import (
	"context"
	"time"
)

// EngineMetric represents an operational counter or gauge emitted by the
// maintenance engine (propagation batch sizes, alert counts, failures).
type EngineMetric struct {
	Name       string
	Value      float64
	Unit       string // "count", "hours", "%", "ms"
	Dimensions map[string]string
	Timestamp  time.Time
}

// NewCountMetric builds a count metric stamped with the current time.
func NewCountMetric(name string, value float64, dimensions map[string]string) EngineMetric {
	return EngineMetric{
		Name:       name,
		Value:      value,
		Unit:       "count",
		Dimensions: dimensions,
		Timestamp:  time.Now(),
	}
}

// MetricsPublisher defines the interface for publishing metrics to external observability platforms.
// This port allows the application layer to publish metrics without coupling to specific implementations.
type MetricsPublisher interface {
	// PublishBatch publishes multiple metrics in a single operation.
	// Implementations should handle batching constraints (e.g., CloudWatch's 1000 metrics/request limit).
	PublishBatch(ctx context.Context, metrics []EngineMetric) error

	// PublishSingle publishes a single metric immediately.
	// Use this for high-priority metrics that need immediate delivery.
	PublishSingle(ctx context.Context, metric EngineMetric) error

	// Flush forces immediate publication of any buffered metrics.
	// Should be called during graceful shutdown to prevent data loss.
	Flush(ctx context.Context) error
}
