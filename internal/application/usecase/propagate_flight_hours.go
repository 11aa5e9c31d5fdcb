package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/dto"
	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
	"github.com/google/uuid"
)

// ErrHoursDecrement возвращается при попытке уменьшить накопленный налет
var ErrHoursDecrement = errors.New("cumulative flight hours cannot decrease")

// SuspiciousIncrementHours задает прирост за один вызов, который считается
// подозрительным и попадает в observability-событие
const SuspiciousIncrementHours = 100

// PropagateFlightHoursUseCase распространяет новое показание налета судна
// на все установленные компоненты и их контролируемые параметры
type PropagateFlightHoursUseCase struct {
	aircraft      repository.AircraftRepository
	components    repository.ComponentRepository
	parameters    repository.MonitoredParameterRepository
	model         *service.OverhaulModel
	events        port.EventPublisher   // может быть nil
	observability port.LogPublisher     // может быть nil
	metrics       port.MetricsPublisher // может быть nil
	logger        *logger.Logger
}

// NewPropagateFlightHoursUseCase создает новый use case
func NewPropagateFlightHoursUseCase(
	aircraft repository.AircraftRepository,
	components repository.ComponentRepository,
	parameters repository.MonitoredParameterRepository,
	model *service.OverhaulModel,
	events port.EventPublisher,
	observability port.LogPublisher,
	metrics port.MetricsPublisher,
	log *logger.Logger,
) *PropagateFlightHoursUseCase {
	return &PropagateFlightHoursUseCase{
		aircraft:      aircraft,
		components:    components,
		parameters:    parameters,
		model:         model,
		events:        events,
		observability: observability,
		metrics:       metrics,
		logger:        log,
	}
}

// Execute выполняет распространение налета.
// Ошибки отдельных компонентов и параметров записываются в отчет и не
// прерывают пакет; фатальны только отсутствие судна и откат налета,
// обе проверки выполняются до каких-либо записей
func (uc *PropagateFlightHoursUseCase) Execute(
	ctx context.Context,
	aircraftID string,
	newCumulativeHours float64,
) (*dto.PropagationReportDTO, error) {
	report := &dto.PropagationReportDTO{
		ReportID:           uuid.New().String(),
		AircraftID:         aircraftID,
		NewCumulativeHours: newCumulativeHours,
		Errors:             []string{},
		Outcomes:           []dto.ComponentOutcomeDTO{},
		StartedAt:          time.Now(),
	}

	// 1. Находим судно; отсутствие фатально, записей еще не было
	aircraft, err := uc.aircraft.FindByID(ctx, aircraftID)
	if err != nil {
		report.Status = dto.ReportStatusRejected
		report.Finalize()
		return report, fmt.Errorf("failed to load aircraft %s: %w", aircraftID, err)
	}

	// 2. Прирост неотрицателен: налет не может откатываться назад
	increment := aircraft.IncrementFor(newCumulativeHours)
	report.Increment = increment

	if increment < 0 {
		report.Status = dto.ReportStatusRejected
		report.Finalize()
		return report, fmt.Errorf("%w: aircraft %s at %.1f, got %.1f",
			ErrHoursDecrement, aircraftID, aircraft.CumulativeFlightHours(), newCumulativeHours)
	}

	// Нулевой прирост: успешный no-op (в том числе повтор того же показания)
	if increment == 0 {
		uc.logger.Debug("Zero increment, nothing to propagate", "aircraft_id", aircraftID)
		report.Status = dto.ReportStatusNoOp
		report.Finalize()
		return report, nil
	}

	if increment > SuspiciousIncrementHours {
		uc.logger.Warn("Suspicious flight hour increment",
			"aircraft_id", aircraftID, "increment", increment)
		uc.publishEngineEvent(ctx, port.EventSuspiciousIncrement, map[string]interface{}{
			"aircraft_id": aircraftID,
			"increment":   increment,
		})
	}

	// 3. Список установленных компонентов
	installed, err := uc.aircraft.ListInstalledComponents(ctx, aircraftID)
	if err != nil {
		report.Status = dto.ReportStatusRejected
		report.Finalize()
		return report, fmt.Errorf("failed to list installed components: %w", err)
	}

	// 4. Фиксируем новое показание судна до пакетной фазы: повторный вызов
	// с тем же показанием вычислит нулевой прирост и станет no-op
	if err := uc.aircraft.UpdateCumulativeHours(ctx, aircraftID, newCumulativeHours); err != nil {
		report.Status = dto.ReportStatusRejected
		report.Finalize()
		return report, fmt.Errorf("failed to update aircraft hours: %w", err)
	}

	uc.logger.Debug("Propagating flight hours",
		"aircraft_id", aircraftID,
		"increment", increment,
		"components", len(installed))

	// 5. Пакетная фаза: каждый компонент обрабатывается независимо
	for i, component := range installed {
		// Кооперативная отмена: каждое обновление атомарно завершено,
		// поэтому остановка между элементами безопасна: остаток лишь
		// помечается пропущенным
		if ctx.Err() != nil {
			report.SkippedComponents = len(installed) - i
			report.Errors = append(report.Errors,
				fmt.Sprintf("propagation cancelled, %d components skipped: %v", report.SkippedComponents, ctx.Err()))
			break
		}

		outcome := uc.propagateComponent(ctx, component, increment)
		report.Outcomes = append(report.Outcomes, outcome)

		switch outcome.Outcome {
		case dto.OutcomeUpdated:
			report.ComponentsUpdated++
			report.ParametersUpdated += outcome.ParametersUpdated
		case dto.OutcomeFailed:
			report.Errors = append(report.Errors,
				fmt.Sprintf("component %s: %s", outcome.ComponentID, outcome.Error))
		}

		if outcome.ParameterErrors > 0 {
			report.Errors = append(report.Errors,
				fmt.Sprintf("component %s: %d parameter update(s) failed", outcome.ComponentID, outcome.ParameterErrors))
		}
	}

	report.Finalize()

	// 6. Публикуем итог пакета
	uc.publishReport(ctx, report)

	uc.logger.Info("Flight hours propagated",
		"aircraft_id", aircraftID,
		"status", report.Status,
		"components_updated", report.ComponentsUpdated,
		"parameters_updated", report.ParametersUpdated,
		"errors", len(report.Errors))

	return report, nil
}

// propagateComponent обновляет один компонент и его параметры.
// Возвращает исход, но не ошибку: дефект одного компонента локален
func (uc *PropagateFlightHoursUseCase) propagateComponent(
	ctx context.Context,
	component *entity.Component,
	increment float64,
) dto.ComponentOutcomeDTO {
	outcome := dto.ComponentOutcomeDTO{
		ComponentID:   component.ID(),
		ComponentName: component.Name(),
		Outcome:       dto.OutcomeUpdated,
	}

	// Атомарный инкремент наработки; хранилище же пересчитывает остаток
	// ресурса в том же операторе
	if err := uc.components.AtomicIncrementHours(ctx, component.ID(), increment); err != nil {
		outcome.Outcome = dto.OutcomeFailed
		outcome.Error = err.Error()

		uc.logger.Warn("Component hour increment failed",
			"component_id", component.ID(), "error", err.Error())
		uc.publishEngineEvent(ctx, port.EventPropagationFailure, map[string]interface{}{
			"component_id": component.ID(),
			"stage":        "component_increment",
			"error":        err.Error(),
		})
		return outcome
	}

	// Параметры обновляются только после успешного обновления компонента
	params, err := uc.parameters.FindByComponent(ctx, component.ID())
	if err != nil {
		outcome.ParameterErrors++
		uc.logger.Warn("Failed to load parameters for component",
			"component_id", component.ID(), "error", err.Error())
		return outcome
	}

	for _, p := range params {
		if err := uc.propagateParameter(ctx, p, increment); err != nil {
			outcome.ParameterErrors++
			uc.publishEngineEvent(ctx, port.EventPropagationFailure, map[string]interface{}{
				"component_id": component.ID(),
				"parameter_id": p.ID(),
				"stage":        "parameter_update",
				"error":        err.Error(),
			})
			continue
		}
		outcome.ParametersUpdated++
	}

	return outcome
}

// propagateParameter атомарно наращивает значение параметра и явно
// пересчитывает производное состояние. Пересчет не атомарен с инкрементом:
// производные поля справочные, авторитетны только накопленные значения
func (uc *PropagateFlightHoursUseCase) propagateParameter(
	ctx context.Context,
	p *entity.MonitoredParameter,
	increment float64,
) error {
	if err := uc.parameters.AtomicIncrementValue(ctx, p.ID(), increment); err != nil {
		return fmt.Errorf("atomic increment failed: %w", err)
	}

	// Перечитываем после инкремента, чтобы пересчет видел актуальное значение
	updated, err := uc.parameters.FindByID(ctx, p.ID())
	if err != nil {
		return fmt.Errorf("failed to reload parameter: %w", err)
	}

	if !updated.OverhaulEnabled() {
		// Параметр без overhaul: значение наращено, пересчитывать нечего
		return nil
	}

	assessment, err := uc.model.Assess(updated)
	if err != nil {
		return fmt.Errorf("overhaul assessment failed: %w", err)
	}

	if assessment.ThresholdsRepaired {
		uc.logger.Warn("Threshold configuration repaired during propagation",
			"parameter_id", updated.ID(), "control_code", updated.ControlCode())
		uc.publishEngineEvent(ctx, port.EventThresholdsRepaired, map[string]interface{}{
			"parameter_id":   updated.ID(),
			"control_code":   updated.ControlCode(),
			"interval_hours": updated.Overhaul().IntervalHours,
		})
	}

	updated.RefreshDerivedState(assessment.LifecycleState, assessment.Color, assessment.RequiresOverhaulNow)

	if err := uc.parameters.Save(ctx, updated); err != nil {
		return fmt.Errorf("failed to save recomputed state: %w", err)
	}

	return nil
}

// publishReport публикует итог пакета в шину событий и счетчики в метрики
func (uc *PropagateFlightHoursUseCase) publishReport(ctx context.Context, report *dto.PropagationReportDTO) {
	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, port.SubjectPropagationCompleted, report); err != nil {
			uc.logger.Warn("Failed to publish propagation report", "error", err.Error())
		}
	}

	if uc.metrics != nil {
		dimensions := map[string]string{"aircraft_id": report.AircraftID}
		batch := []port.EngineMetric{
			port.NewCountMetric("ComponentsUpdated", float64(report.ComponentsUpdated), dimensions),
			port.NewCountMetric("ParametersUpdated", float64(report.ParametersUpdated), dimensions),
			port.NewCountMetric("PropagationErrors", float64(len(report.Errors)), dimensions),
		}
		if err := uc.metrics.PublishBatch(ctx, batch); err != nil {
			uc.logger.Warn("Failed to publish propagation metrics", "error", err.Error())
		}
	}
}

// publishEngineEvent отправляет структурированное observability-событие
func (uc *PropagateFlightHoursUseCase) publishEngineEvent(ctx context.Context, event string, fields map[string]interface{}) {
	if uc.observability == nil {
		return
	}
	if err := uc.observability.Publish(ctx, port.NewEngineEvent(event, fields)); err != nil {
		uc.logger.Warn("Failed to publish engine event", "event", event, "error", err.Error())
	}
}
