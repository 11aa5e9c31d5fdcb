package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

func TestCompleteOverhaul_AdvancesCycle(t *testing.T) {
	paramRepo := newMockParameterRepo()
	// Параметр у границы первого цикла: value 1000, interval 500, cycle 1
	paramRepo.add(testParameter("p-1", "comp-1", 1000, 500, 1, standardThresholds()))

	events := &mockEventPublisher{}
	cache := newMockCache()
	uc := NewCompleteOverhaulUseCase(paramRepo, newTestModel(), events, cache, logger.New("error"))

	result, err := uc.Execute(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Overhaul.CurrentCycle != 2 {
		t.Fatalf("expected cycle 2, got %d", result.Overhaul.CurrentCycle)
	}
	if result.Overhaul.HoursAtLastOverhaul != 1000 {
		t.Fatalf("expected hours_at_last_overhaul 1000, got %v", result.Overhaul.HoursAtLastOverhaul)
	}

	// Новый цикл начинается зеленым: запас снова полный интервал
	if len(paramRepo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(paramRepo.saved))
	}
	saved := paramRepo.saved[0]
	if saved.LifecycleState() != valueobject.StateOK {
		t.Fatalf("expected OK after overhaul, got %s", saved.LifecycleState())
	}
	if saved.AlertColor() != valueobject.ColorGreen {
		t.Fatalf("expected green after overhaul, got %s", saved.AlertColor())
	}
	if saved.RequiresOverhaul() {
		t.Fatal("requiresOverhaul must be cleared")
	}

	if len(events.published) != 1 || events.published[0] != port.SubjectOverhaulCompleted {
		t.Fatalf("unexpected events: %v", events.published)
	}
	if len(cache.deleted) == 0 {
		t.Fatal("expected alerts cache invalidation")
	}
}

func TestCompleteOverhaul_CyclesExhausted(t *testing.T) {
	paramRepo := newMockParameterRepo()
	p := testParameter("p-1", "comp-1", 5000, 500, 10, standardThresholds())
	paramRepo.add(p)

	uc := NewCompleteOverhaulUseCase(paramRepo, newTestModel(), nil, nil, logger.New("error"))

	if _, err := uc.Execute(context.Background(), "p-1"); !errors.Is(err, entity.ErrCyclesExhausted) {
		t.Fatalf("expected ErrCyclesExhausted, got %v", err)
	}
	if len(paramRepo.saved) != 0 {
		t.Fatalf("exhausted parameter must not be saved, got %d saves", len(paramRepo.saved))
	}
}

func TestCompleteOverhaul_NotEnabled(t *testing.T) {
	paramRepo := newMockParameterRepo()
	p := testParameter("p-1", "comp-1", 100, 500, 0, nil)
	p.Overhaul().Enabled = false
	paramRepo.add(p)

	uc := NewCompleteOverhaulUseCase(paramRepo, newTestModel(), nil, nil, logger.New("error"))

	if _, err := uc.Execute(context.Background(), "p-1"); !errors.Is(err, entity.ErrOverhaulNotEnabled) {
		t.Fatalf("expected ErrOverhaulNotEnabled, got %v", err)
	}
}

func TestCompleteOverhaul_UnknownParameter(t *testing.T) {
	uc := NewCompleteOverhaulUseCase(newMockParameterRepo(), newTestModel(), nil, nil, logger.New("error"))

	if _, err := uc.Execute(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
