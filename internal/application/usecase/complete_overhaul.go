package usecase

import (
	"context"
	"fmt"

	"github.com/dreschagin/fleet-maintenance/internal/application/dto"
	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// CompleteOverhaulUseCase регистрирует выполненный overhaul параметра
type CompleteOverhaulUseCase struct {
	parameters repository.MonitoredParameterRepository
	model      *service.OverhaulModel
	events     port.EventPublisher // может быть nil
	cache      port.Cache          // может быть nil
	logger     *logger.Logger
}

// NewCompleteOverhaulUseCase создает новый use case
func NewCompleteOverhaulUseCase(
	parameters repository.MonitoredParameterRepository,
	model *service.OverhaulModel,
	events port.EventPublisher,
	cache port.Cache,
	logger *logger.Logger,
) *CompleteOverhaulUseCase {
	return &CompleteOverhaulUseCase{
		parameters: parameters,
		model:      model,
		events:     events,
		cache:      cache,
		logger:     logger,
	}
}

// Execute регистрирует overhaul: открывает следующий цикл и пересчитывает
// производное состояние параметра
func (uc *CompleteOverhaulUseCase) Execute(ctx context.Context, parameterID string) (*dto.ParameterDTO, error) {
	// 1. Находим параметр
	p, err := uc.parameters.FindByID(ctx, parameterID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameter %s: %w", parameterID, err)
	}

	// 2. Переводим цикл в доменной модели
	if err := p.CompleteOverhaul(); err != nil {
		return nil, fmt.Errorf("cannot complete overhaul for %s: %w", parameterID, err)
	}

	// 3. Пересчитываем состояние нового цикла
	assessment, err := uc.model.Assess(p)
	if err != nil {
		return nil, fmt.Errorf("post-overhaul assessment failed: %w", err)
	}
	p.RefreshDerivedState(assessment.LifecycleState, assessment.Color, assessment.RequiresOverhaulNow)

	// 4. Сохраняем
	if err := uc.parameters.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save parameter: %w", err)
	}

	result := dto.FromParameter(p)

	// 5. Публикуем событие и сбрасываем кеш alerts (best-effort)
	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, port.SubjectOverhaulCompleted, result); err != nil {
			uc.logger.Warn("Failed to publish overhaul event", "error", err.Error())
		}
	}
	if uc.cache != nil {
		if err := uc.cache.DeletePattern(ctx, "alerts:*"); err != nil {
			uc.logger.Warn("Failed to invalidate alerts cache", "error", err.Error())
		}
	}

	uc.logger.Info("Overhaul completed",
		"parameter_id", parameterID,
		"control_code", p.ControlCode(),
		"cycle", p.Overhaul().CurrentCycle)

	return result, nil
}
