package cloudwatch

import (
	"testing"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/port"
)

func TestMapUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected string
	}{
		{"percentage", "%", "Percent"},
		{"milliseconds", "ms", "Milliseconds"},
		{"seconds", "s", "Seconds"},
		{"count", "count", "Count"},
		{"flight hours", "hours", "None"},
		{"unknown", "custom", "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := mapUnit(tt.unit)
			if string(result) != tt.expected {
				t.Errorf("mapUnit(%q) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestConvertToDatum(t *testing.T) {
	// Create test publisher (minimal config)
	p := &MetricsPublisher{
		namespace: "Test/Namespace",
		defaultDimensions: map[string]string{
			"Environment": "test",
			"Region":      "us-east-1",
		},
		storageResolution: 60,
	}

	metric := port.NewCountMetric("ComponentsUpdated", 7, map[string]string{
		"aircraft_id": "ac-1",
	})

	// Convert to CloudWatch datum
	datum := p.convertToDatum(metric)

	// Verify fields
	if datum.MetricName == nil || *datum.MetricName != "ComponentsUpdated" {
		t.Errorf("Expected MetricName=ComponentsUpdated, got %v", datum.MetricName)
	}

	if datum.Value == nil || *datum.Value != 7 {
		t.Errorf("Expected Value=7, got %v", datum.Value)
	}

	if datum.Unit != "Count" {
		t.Errorf("Expected Unit=Count, got %v", datum.Unit)
	}

	if datum.Timestamp == nil {
		t.Error("Expected Timestamp to be set")
	}

	if datum.StorageResolution == nil || *datum.StorageResolution != 60 {
		t.Errorf("Expected StorageResolution=60, got %v", datum.StorageResolution)
	}

	// Verify dimensions
	expectedDimensions := map[string]string{
		"Environment": "test",
		"Region":      "us-east-1",
		"aircraft_id": "ac-1",
	}

	if len(datum.Dimensions) != len(expectedDimensions) {
		t.Errorf("Expected %d dimensions, got %d", len(expectedDimensions), len(datum.Dimensions))
	}

	for _, dim := range datum.Dimensions {
		if dim.Name == nil || dim.Value == nil {
			t.Error("Dimension name or value is nil")
			continue
		}

		expectedValue, ok := expectedDimensions[*dim.Name]
		if !ok {
			t.Errorf("Unexpected dimension: %s", *dim.Name)
			continue
		}

		if *dim.Value != expectedValue {
			t.Errorf("Dimension %s: expected %s, got %s", *dim.Name, expectedValue, *dim.Value)
		}
	}
}

func TestConvertToDatum_ZeroTimestamp(t *testing.T) {
	p := &MetricsPublisher{namespace: "Test/Namespace"}

	datum := p.convertToDatum(port.EngineMetric{
		Name:  "PropagationErrors",
		Value: 1,
		Unit:  "count",
	})

	if datum.Timestamp == nil || datum.Timestamp.IsZero() {
		t.Error("Expected Timestamp to be filled for zero-time metric")
	}
	if datum.Timestamp != nil && time.Since(*datum.Timestamp) > time.Minute {
		t.Errorf("Expected a recent timestamp, got %v", datum.Timestamp)
	}
}
