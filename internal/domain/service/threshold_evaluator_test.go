package service

import (
	"errors"
	"testing"

	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

func TestEvaluate_HoursBanding(t *testing.T) {
	evaluator := NewThresholdEvaluator()

	cfg := valueobject.ThresholdConfig{
		Purple: 10,
		Red:    100,
		Orange: 75,
		Yellow: 50,
		Green:  0,
	}

	tests := []struct {
		name      string
		remaining float64
		wantColor valueobject.AlertColor
	}{
		{"ample margin", 500, valueobject.ColorGreen},
		{"inside red band", 50, valueobject.ColorRed},
		{"exactly at red cutoff", 100, valueobject.ColorRed},
		{"just outside red cutoff", 100.5, valueobject.ColorGreen},
		{"at boundary", 0, valueobject.ColorRed},
		{"overdue within purple tolerance", -5, valueobject.ColorRed},
		{"overdue exactly at tolerance", -10, valueobject.ColorRed},
		{"overdue beyond tolerance", -15, valueobject.ColorPurple},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluator.Evaluate(tt.remaining, 500, valueobject.Hours, cfg)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if result.Color != tt.wantColor {
				t.Errorf("Evaluate(%v) color = %s, want %s", tt.remaining, result.Color, tt.wantColor)
			}
			if result.SeverityRank != tt.wantColor.SeverityRank() {
				t.Errorf("severity rank = %d, want %d", result.SeverityRank, tt.wantColor.SeverityRank())
			}
			if result.RequiresAttention != tt.wantColor.RequiresAttention() {
				t.Errorf("requires attention = %v, want %v", result.RequiresAttention, tt.wantColor.RequiresAttention())
			}
		})
	}
}

func TestEvaluate_HoursBandOrder(t *testing.T) {
	evaluator := NewThresholdEvaluator()

	// Полосы обходятся от срочной к спокойной: red побеждает при равенстве
	cfg := valueobject.ThresholdConfig{Red: 50, Orange: 50, Yellow: 50}

	result, err := evaluator.Evaluate(50, 500, valueobject.Hours, cfg)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Color != valueobject.ColorRed {
		t.Errorf("tie must resolve to the more urgent band, got %s", result.Color)
	}
}

func TestEvaluate_HoursDisabledRedBand(t *testing.T) {
	evaluator := NewThresholdEvaluator()

	// Red = 0 не срабатывает на положительных остатках, orange остается достижимым
	cfg := valueobject.ThresholdConfig{Red: 0, Orange: 75, Yellow: 50}

	result, err := evaluator.Evaluate(60, 500, valueobject.Hours, cfg)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Color != valueobject.ColorOrange {
		t.Errorf("expected orange, got %s", result.Color)
	}
}

func TestEvaluate_PercentBanding(t *testing.T) {
	evaluator := NewThresholdEvaluator()

	cfg := valueobject.ThresholdConfig{
		Purple: 10,
		Red:    15,
		Orange: 10,
		Yellow: 5,
	}

	tests := []struct {
		name        string
		remaining   float64
		wantColor   valueobject.AlertColor
		wantPercent float64
	}{
		{"ample margin", 80, valueobject.ColorGreen, 20},
		{"inside red band", 10, valueobject.ColorRed, 90},
		{"past boundary within tolerance", -5, valueobject.ColorRed, 105},
		{"past boundary beyond tolerance", -20, valueobject.ColorPurple, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := evaluator.Evaluate(tt.remaining, 100, valueobject.Percent, cfg)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if result.Color != tt.wantColor {
				t.Errorf("color = %s, want %s", result.Color, tt.wantColor)
			}
			if result.PercentConsumed != tt.wantPercent {
				t.Errorf("percent consumed = %v, want %v", result.PercentConsumed, tt.wantPercent)
			}
		})
	}
}

func TestEvaluate_InvalidReferenceInterval(t *testing.T) {
	evaluator := NewThresholdEvaluator()

	for _, interval := range []float64{0, -100} {
		_, err := evaluator.Evaluate(50, interval, valueobject.Hours, valueobject.ThresholdConfig{Red: 10})
		if err == nil {
			t.Fatalf("expected error for interval %v", interval)
		}
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("expected ErrInvalidConfiguration, got %v", err)
		}
	}
}
