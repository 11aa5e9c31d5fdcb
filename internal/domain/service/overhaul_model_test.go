package service

import (
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
)

func newTestModel() *OverhaulModel {
	return NewOverhaulModel(NewThresholdEvaluator(), NewThresholdDefaults())
}

func buildParameter(t *testing.T, currentValue, limitValue float64, oc *valueobject.OverhaulConfig) *entity.MonitoredParameter {
	t.Helper()
	now := time.Now()
	return entity.ReconstructParameter(
		"param-1", "component-1", "time-to-removal",
		currentValue, limitValue,
		valueobject.Hours,
		oc,
		valueobject.StateOK, false, valueobject.ColorGreen,
		now, now,
	)
}

func TestAssess_CycleRelativeAlerting(t *testing.T) {
	model := newTestModel()

	// Второй цикл: параметр на 950 часах при интервале 500 должен оцениваться
	// относительно границы 1000, а не полного ресурса
	p := buildParameter(t, 950, 5000, &valueobject.OverhaulConfig{
		Enabled:             true,
		IntervalHours:       500,
		CurrentCycle:        1,
		MaxCycles:           9,
		HoursAtLastOverhaul: 500,
		Thresholds:          &valueobject.ThresholdConfig{Purple: 25, Red: 100, Orange: 75, Yellow: 50},
	})

	a, err := model.Assess(p)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if a.HoursUntilNextOverhaul != 50 {
		t.Errorf("hours until next overhaul = %v, want 50", a.HoursUntilNextOverhaul)
	}
	if a.NextOverhaulAt != 1000 {
		t.Errorf("next overhaul at = %v, want 1000", a.NextOverhaulAt)
	}
	if a.TimeSinceOverhaul != 450 {
		t.Errorf("time since overhaul = %v, want 450", a.TimeSinceOverhaul)
	}
	if a.Color != valueobject.ColorRed {
		t.Errorf("color = %s, want red", a.Color)
	}
	if a.LifecycleState != valueobject.StateDueSoon {
		t.Errorf("state = %s, want DUE_SOON", a.LifecycleState)
	}
	if a.RequiresOverhaulNow {
		t.Error("overhaul must not be required before the cycle boundary")
	}
}

func TestAssess_BoundaryReached(t *testing.T) {
	model := newTestModel()

	// Судно налетало ровно до границы 21-го цикла
	p := buildParameter(t, 1050, 10000, &valueobject.OverhaulConfig{
		Enabled:             true,
		IntervalHours:       50,
		CurrentCycle:        20,
		MaxCycles:           100,
		HoursAtLastOverhaul: 1000,
		Thresholds:          &valueobject.ThresholdConfig{Purple: 5, Red: 10, Orange: 7, Yellow: 5},
	})

	a, err := model.Assess(p)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}

	if a.TimeSinceOverhaul != 50 {
		t.Errorf("time since overhaul = %v, want 50", a.TimeSinceOverhaul)
	}
	if a.HoursUntilNextOverhaul != 0 {
		t.Errorf("hours until next overhaul = %v, want 0", a.HoursUntilNextOverhaul)
	}
	if !a.RequiresOverhaulNow {
		t.Error("expected requires overhaul now at the cycle boundary")
	}
	if a.LifecycleState != valueobject.StateOverhaulRequired {
		t.Errorf("state = %s, want OVERHAUL_REQUIRED", a.LifecycleState)
	}
}

func TestAssess_DecisionOrder(t *testing.T) {
	model := newTestModel()

	tests := []struct {
		name         string
		currentValue float64
		limitValue   float64
		oc           valueobject.OverhaulConfig
		wantState    valueobject.LifecycleState
	}{
		{
			name:         "life expired wins over everything",
			currentValue: 5000,
			limitValue:   5000,
			oc: valueobject.OverhaulConfig{
				Enabled: true, IntervalHours: 500,
				CurrentCycle: 9, MaxCycles: 9, HoursAtLastOverhaul: 4500,
			},
			wantState: valueobject.StateLifeExpired,
		},
		{
			name:         "limit reached with cycles remaining still requires overhaul",
			currentValue: 5000,
			limitValue:   5000,
			oc: valueobject.OverhaulConfig{
				Enabled: true, IntervalHours: 500,
				CurrentCycle: 5, MaxCycles: 9, HoursAtLastOverhaul: 4800,
			},
			wantState: valueobject.StateOverhaulRequired,
		},
		{
			name:         "negative remainder without boundary crossing is drift",
			currentValue: 1400,
			limitValue:   5000,
			oc: valueobject.OverhaulConfig{
				Enabled: true, IntervalHours: 500,
				CurrentCycle: 2, MaxCycles: 9, HoursAtLastOverhaul: 800,
			},
			wantState: valueobject.StateOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oc := tt.oc
			p := buildParameter(t, tt.currentValue, tt.limitValue, &oc)

			a, err := model.Assess(p)
			if err != nil {
				t.Fatalf("Assess() error = %v", err)
			}
			if a.LifecycleState != tt.wantState {
				t.Errorf("state = %s, want %s", a.LifecycleState, tt.wantState)
			}
			if !a.RequiresAttention {
				t.Error("hard lifecycle states must require attention")
			}
		})
	}
}

func TestAssess_BinaryFallbackWithoutThresholds(t *testing.T) {
	model := newTestModel()

	tests := []struct {
		name         string
		currentValue float64
		wantState    valueobject.LifecycleState
	}{
		{"inside anticipation window", 470, valueobject.StateDueSoon},
		{"outside anticipation window", 400, valueobject.StateOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildParameter(t, tt.currentValue, 5000, &valueobject.OverhaulConfig{
				Enabled:       true,
				IntervalHours: 500,
				MaxCycles:     9,
			})

			a, err := model.Assess(p)
			if err != nil {
				t.Fatalf("Assess() error = %v", err)
			}
			if a.LifecycleState != tt.wantState {
				t.Errorf("state = %s, want %s", a.LifecycleState, tt.wantState)
			}
		})
	}
}

func TestAssess_CustomAnticipationHorizon(t *testing.T) {
	model := NewOverhaulModelWithAnticipation(NewThresholdEvaluator(), NewThresholdDefaults(), 150)

	// Запас 100 часов: стандартный горизонт (50) еще молчит,
	// расширенный до 150 уже предупреждает
	p := buildParameter(t, 400, 5000, &valueobject.OverhaulConfig{
		Enabled:       true,
		IntervalHours: 500,
		MaxCycles:     9,
	})

	a, err := model.Assess(p)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if a.LifecycleState != valueobject.StateDueSoon {
		t.Errorf("state = %s, want DUE_SOON", a.LifecycleState)
	}
	if !a.RequiresAttention {
		t.Error("expected attention inside the widened anticipation window")
	}

	if def, err := newTestModel().Assess(p); err != nil || def.LifecycleState != valueobject.StateOK {
		t.Errorf("default horizon: state = %s, err = %v, want OK", def.LifecycleState, err)
	}
}

func TestAssess_RepairsOversizedThresholds(t *testing.T) {
	model := newTestModel()

	// Red 150 при интервале 50: пороги от полного ресурса, подмена
	// должна быть видна вызывающему
	p := buildParameter(t, 10, 1000, &valueobject.OverhaulConfig{
		Enabled:       true,
		IntervalHours: 50,
		MaxCycles:     9,
		Thresholds:    &valueobject.ThresholdConfig{Red: 150, Orange: 100, Yellow: 50},
	})

	a, err := model.Assess(p)
	if err != nil {
		t.Fatalf("Assess() error = %v", err)
	}
	if !a.ThresholdsRepaired {
		t.Fatal("expected thresholds substitution to be reported")
	}
	// Остаток 40 часов при стандартных порогах для интервала 50 (red = 20)
	// дает зеленый, а не красный от порогов полного ресурса
	if a.Color != valueobject.ColorGreen {
		t.Errorf("color = %s, want green after repair", a.Color)
	}
}

func TestAssess_NotApplicable(t *testing.T) {
	model := newTestModel()

	tests := []struct {
		name string
		oc   *valueobject.OverhaulConfig
	}{
		{"no overhaul config", nil},
		{"overhaul disabled", &valueobject.OverhaulConfig{Enabled: false, IntervalHours: 500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := buildParameter(t, 100, 5000, tt.oc)
			if _, err := model.Assess(p); !errors.Is(err, ErrNotApplicable) {
				t.Errorf("expected ErrNotApplicable, got %v", err)
			}
		})
	}
}
