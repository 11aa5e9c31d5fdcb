package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/dto"
	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/internal/infrastructure/cache/redis"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// GetFleetAlertsUseCase собирает maintenance alerts всего флота с кешированием
// и публикацией итогового снимка
type GetFleetAlertsUseCase struct {
	aircraft    repository.AircraftRepository
	parameters  repository.MonitoredParameterRepository
	perAircraft *GetAircraftAlertsUseCase
	cache       port.Cache                   // может быть nil
	snapshots   port.AlertSnapshotRepository // может быть nil
	events      port.EventPublisher          // может быть nil
	logger      *logger.Logger
}

// NewGetFleetAlertsUseCase создает новый use case
func NewGetFleetAlertsUseCase(
	aircraft repository.AircraftRepository,
	parameters repository.MonitoredParameterRepository,
	perAircraft *GetAircraftAlertsUseCase,
	cache port.Cache,
	snapshots port.AlertSnapshotRepository,
	events port.EventPublisher,
	logger *logger.Logger,
) *GetFleetAlertsUseCase {
	return &GetFleetAlertsUseCase{
		aircraft:    aircraft,
		parameters:  parameters,
		perAircraft: perAircraft,
		cache:       cache,
		snapshots:   snapshots,
		events:      events,
		logger:      logger,
	}
}

// Execute возвращает alerts флота. Отказ одного судна не роняет обзор флота:
// его ошибка логируется, остальные суда обрабатываются
func (uc *GetFleetAlertsUseCase) Execute(ctx context.Context) ([]*dto.AlertDTO, error) {
	// Если кеш не настроен, считаем напрямую
	if uc.cache == nil {
		return uc.executeWithoutCache(ctx)
	}

	cacheKey := redis.FleetAlertsCacheKey()

	var cached []*dto.AlertDTO
	if err := uc.cache.Get(ctx, cacheKey, &cached); err == nil {
		uc.logger.Debug("Cache hit for fleet alerts", "count", len(cached))
		return cached, nil
	}

	uc.logger.Debug("Cache miss for fleet alerts, scanning fleet")

	alerts, err := uc.executeWithoutCache(ctx)
	if err != nil {
		return nil, err
	}

	// Сохраняем в кеш (асинхронно, не блокируем ответ)
	go func() {
		if err := uc.cache.Set(context.Background(), cacheKey, alerts); err != nil {
			uc.logger.Warn("Failed to cache fleet alerts", "error", err.Error())
		}
	}()

	return alerts, nil
}

// executeWithoutCache сканирует флот, публикует снимок и событие обновления.
// Параметры читаются одним запросом на весь флот, а не по судну
func (uc *GetFleetAlertsUseCase) executeWithoutCache(ctx context.Context) ([]*dto.AlertDTO, error) {
	fleet, err := uc.aircraft.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet: %w", err)
	}

	params, err := uc.parameters.FindAllWithOverhaulEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load overhaul parameters: %w", err)
	}

	byComponent := make(map[string][]*entity.MonitoredParameter, len(params))
	for _, p := range params {
		byComponent[p.ComponentID()] = append(byComponent[p.ComponentID()], p)
	}

	alerts := make([]*dto.AlertDTO, 0)
	for _, a := range fleet {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Отказ одного судна не роняет обзор флота
		installed, err := uc.aircraft.ListInstalledComponents(ctx, a.ID())
		if err != nil {
			uc.logger.Warn("Fleet scan: aircraft skipped",
				"aircraft_id", a.ID(), "tail_number", a.TailNumber(), "error", err.Error())
			continue
		}

		names := componentNames(installed)
		group := make([]*entity.MonitoredParameter, 0, len(installed))
		for _, c := range installed {
			group = append(group, byComponent[c.ID()]...)
		}

		alerts = append(alerts, uc.perAircraft.assessAll(ctx, a.ID(), names, group)...)
	}

	alerts = dedupAlerts(alerts)
	sortAlertsBySeverity(alerts)

	uc.publishSnapshot(ctx, alerts)

	uc.logger.Info("Fleet alerts collected",
		"aircraft", len(fleet), "parameters", len(params), "alerts", len(alerts))

	return alerts, nil
}

// publishSnapshot сохраняет снимок и публикует событие обновления.
// Оба шага best-effort: обзор флота ценнее своих побочных эффектов
func (uc *GetFleetAlertsUseCase) publishSnapshot(ctx context.Context, alerts []*dto.AlertDTO) {
	snapshot := buildFleetSnapshot(alerts)

	if uc.snapshots != nil {
		if err := uc.snapshots.PutSnapshot(ctx, snapshot); err != nil {
			uc.logger.Warn("Failed to persist fleet alert snapshot", "error", err.Error())
		}
	}

	if uc.events != nil {
		if err := uc.events.PublishEvent(ctx, port.SubjectFleetAlertsRefreshed, snapshot); err != nil {
			uc.logger.Warn("Failed to publish fleet alerts event", "error", err.Error())
		}
	}
}

func buildFleetSnapshot(alerts []*dto.AlertDTO) port.FleetAlertSnapshot {
	records := make([]port.AlertSnapshotRecord, 0, len(alerts))
	for _, a := range alerts {
		records = append(records, port.AlertSnapshotRecord{
			AircraftID:             a.AircraftID,
			ComponentID:            a.ComponentID,
			ComponentName:          a.ComponentName,
			ParameterID:            a.ParameterID,
			ControlCode:            a.ControlCode,
			Color:                  a.Color,
			SeverityRank:           a.SeverityRank,
			LifecycleState:         a.LifecycleState,
			HoursUntilNextOverhaul: a.HoursUntilNextOverhaul,
			Description:            a.Description,
		})
	}

	return port.FleetAlertSnapshot{
		Scope:       port.SnapshotScopeFleet,
		GeneratedAt: time.Now(),
		AlertCount:  len(records),
		Alerts:      records,
	}
}
