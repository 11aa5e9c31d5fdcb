package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dreschagin/fleet-maintenance/internal/application/dto"
	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// GetAircraftAlertsUseCase собирает maintenance alerts одного судна
type GetAircraftAlertsUseCase struct {
	aircraft      repository.AircraftRepository
	parameters    repository.MonitoredParameterRepository
	model         *service.OverhaulModel
	observability port.LogPublisher // может быть nil
	logger        *logger.Logger
}

// NewGetAircraftAlertsUseCase создает новый use case
func NewGetAircraftAlertsUseCase(
	aircraft repository.AircraftRepository,
	parameters repository.MonitoredParameterRepository,
	model *service.OverhaulModel,
	observability port.LogPublisher,
	logger *logger.Logger,
) *GetAircraftAlertsUseCase {
	return &GetAircraftAlertsUseCase{
		aircraft:      aircraft,
		parameters:    parameters,
		model:         model,
		observability: observability,
		logger:        logger,
	}
}

// Execute возвращает alerts судна: только требующие внимания, без дублей,
// по убыванию срочности
func (uc *GetAircraftAlertsUseCase) Execute(ctx context.Context, aircraftID string) ([]*dto.AlertDTO, error) {
	// 1. Судно должно существовать
	if _, err := uc.aircraft.FindByID(ctx, aircraftID); err != nil {
		return nil, fmt.Errorf("failed to load aircraft %s: %w", aircraftID, err)
	}

	// 2. Имена компонентов для читаемых alerts
	installed, err := uc.aircraft.ListInstalledComponents(ctx, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installed components: %w", err)
	}
	names := componentNames(installed)

	// 3. Оцениваем все overhaul-параметры судна
	params, err := uc.parameters.FindByAircraft(ctx, aircraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	alerts := uc.assessAll(ctx, aircraftID, names, params)

	// 4. Дедупликация и сортировка по срочности
	alerts = dedupAlerts(alerts)
	sortAlertsBySeverity(alerts)

	uc.logger.Debug("Aircraft alerts collected",
		"aircraft_id", aircraftID,
		"parameters", len(params),
		"alerts", len(alerts))

	return alerts, nil
}

// assessAll оценивает параметры по одному; дефектный параметр не роняет
// весь список
func (uc *GetAircraftAlertsUseCase) assessAll(
	ctx context.Context,
	aircraftID string,
	names map[string]string,
	params []*entity.MonitoredParameter,
) []*dto.AlertDTO {
	alerts := make([]*dto.AlertDTO, 0, len(params))

	for _, p := range params {
		assessment, err := uc.model.Assess(p)
		if err != nil {
			if errors.Is(err, service.ErrNotApplicable) {
				continue
			}
			uc.logger.Warn("Parameter assessment failed, skipping",
				"parameter_id", p.ID(), "error", err.Error())
			continue
		}

		// Подмена порогов видима и на пути чтения, не только при распространении
		if assessment.ThresholdsRepaired {
			uc.logger.Warn("Threshold configuration repaired during assessment",
				"parameter_id", p.ID(), "control_code", p.ControlCode())
			uc.publishEngineEvent(ctx, port.EventThresholdsRepaired, map[string]interface{}{
				"parameter_id":   p.ID(),
				"control_code":   p.ControlCode(),
				"interval_hours": p.Overhaul().IntervalHours,
			})
		}

		if !assessment.RequiresAttention {
			continue
		}

		alerts = append(alerts, dto.NewAlertDTO(aircraftID, names[p.ComponentID()], p, assessment))
	}

	return alerts
}

// publishEngineEvent отправляет структурированное observability-событие
func (uc *GetAircraftAlertsUseCase) publishEngineEvent(ctx context.Context, event string, fields map[string]interface{}) {
	if uc.observability == nil {
		return
	}
	if err := uc.observability.Publish(ctx, port.NewEngineEvent(event, fields)); err != nil {
		uc.logger.Warn("Failed to publish engine event", "event", event, "error", err.Error())
	}
}

func componentNames(components []*entity.Component) map[string]string {
	names := make(map[string]string, len(components))
	for _, c := range components {
		names[c.ID()] = c.Name()
	}
	return names
}

// dedupAlerts удаляет дубликаты по паре компонент+код контроля,
// оставляя самый срочный
func dedupAlerts(alerts []*dto.AlertDTO) []*dto.AlertDTO {
	seen := make(map[string]*dto.AlertDTO, len(alerts))
	order := make([]string, 0, len(alerts))

	for _, a := range alerts {
		key := a.ComponentID + ":" + a.ControlCode
		existing, ok := seen[key]
		if !ok {
			seen[key] = a
			order = append(order, key)
			continue
		}
		if moreUrgent(a, existing) {
			seen[key] = a
		}
	}

	result := make([]*dto.AlertDTO, 0, len(seen))
	for _, key := range order {
		result = append(result, seen[key])
	}
	return result
}

// moreUrgent сравнивает два alert: меньший ранг серьезности срочнее,
// при равенстве первым идет меньший остаток часов
func moreUrgent(a, b *dto.AlertDTO) bool {
	if a.SeverityRank != b.SeverityRank {
		return a.SeverityRank < b.SeverityRank
	}
	return a.HoursUntilNextOverhaul < b.HoursUntilNextOverhaul
}

func sortAlertsBySeverity(alerts []*dto.AlertDTO) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return moreUrgent(alerts[i], alerts[j])
	})
}
