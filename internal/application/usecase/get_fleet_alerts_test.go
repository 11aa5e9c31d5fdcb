package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/port"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

type mockCache struct {
	mu       sync.Mutex
	data     map[string][]byte
	getCalls int
	setCalls int
	deleted  []string
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	raw, ok := m.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCache) Set(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *mockCache) DeletePattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, pattern)
	return nil
}

func (m *mockCache) Close() error { return nil }

func (m *mockCache) counts() (gets, sets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getCalls, m.setCalls
}

type mockSnapshotRepo struct {
	puts []port.FleetAlertSnapshot
	err  error
}

func (m *mockSnapshotRepo) PutSnapshot(_ context.Context, snapshot port.FleetAlertSnapshot) error {
	if m.err != nil {
		return m.err
	}
	m.puts = append(m.puts, snapshot)
	return nil
}

func (m *mockSnapshotRepo) GetSnapshot(_ context.Context, _ string) (*port.FleetAlertSnapshot, error) {
	if len(m.puts) == 0 {
		return nil, errors.New("no snapshot")
	}
	last := m.puts[len(m.puts)-1]
	return &last, nil
}

func fleetFixture() (*mockAircraftRepo, *mockParameterRepo) {
	acRepo, _ := fixtureFleet("comp-1")
	paramRepo := newMockParameterRepo()
	paramRepo.add(testParameter("p-red", "comp-1", 480, 500, 0, standardThresholds()))
	return acRepo, paramRepo
}

func TestGetFleetAlerts_ScansFleetAndStoresSnapshot(t *testing.T) {
	acRepo, paramRepo := fleetFixture()
	snapshots := &mockSnapshotRepo{}
	events := &mockEventPublisher{}

	perAircraft := NewGetAircraftAlertsUseCase(acRepo, paramRepo, newTestModel(), nil, logger.New("error"))
	uc := NewGetFleetAlertsUseCase(acRepo, paramRepo, perAircraft, nil, snapshots, events, logger.New("error"))

	alerts, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}

	if len(snapshots.puts) != 1 {
		t.Fatalf("expected 1 snapshot put, got %d", len(snapshots.puts))
	}
	snap := snapshots.puts[0]
	if snap.Scope != port.SnapshotScopeFleet {
		t.Fatalf("unexpected snapshot scope: %s", snap.Scope)
	}
	if snap.AlertCount != 1 || len(snap.Alerts) != 1 {
		t.Fatalf("unexpected snapshot contents: count=%d alerts=%d", snap.AlertCount, len(snap.Alerts))
	}
	if snap.Alerts[0].ParameterID != "p-red" {
		t.Fatalf("unexpected snapshot alert: %+v", snap.Alerts[0])
	}

	if len(events.published) != 1 || events.published[0] != port.SubjectFleetAlertsRefreshed {
		t.Fatalf("unexpected events: %v", events.published)
	}

	// Параметры флота читаются одним запросом, без запроса на каждое судно
	if paramRepo.findAllCalls != 1 {
		t.Fatalf("expected 1 fleet-wide parameter query, got %d", paramRepo.findAllCalls)
	}
	if paramRepo.findByAircraftCalls != 0 {
		t.Fatalf("fleet scan must not query parameters per aircraft, got %d calls", paramRepo.findByAircraftCalls)
	}
}

func TestGetFleetAlerts_ToleratesAircraftFailure(t *testing.T) {
	acRepo, paramRepo := fleetFixture()
	// Судно видно в списке флота, но чтение его компонентов отказывает
	acRepo.aircraft["ac-2"] = entity.ReconstructAircraft("ac-2", "RA-73802", 500)
	acRepo.componentsErr = map[string]error{"ac-2": errors.New("storage offline")}

	perAircraft := NewGetAircraftAlertsUseCase(acRepo, paramRepo, newTestModel(), nil, logger.New("error"))
	uc := NewGetFleetAlertsUseCase(acRepo, paramRepo, perAircraft, nil, nil, nil, logger.New("error"))

	alerts, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	// ac-2 ничего не добавляет, но и не роняет обзор
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
}

func TestGetFleetAlerts_UsesCache(t *testing.T) {
	acRepo, paramRepo := fleetFixture()
	cache := newMockCache()

	perAircraft := NewGetAircraftAlertsUseCase(acRepo, paramRepo, newTestModel(), nil, logger.New("error"))
	uc := NewGetFleetAlertsUseCase(acRepo, paramRepo, perAircraft, cache, nil, nil, logger.New("error"))

	first, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(first))
	}

	// Кеш пишется асинхронно
	waitFor(t, func() bool {
		_, sets := cache.counts()
		return sets == 1
	})

	second, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected 1 cached alert, got %d", len(second))
	}
	gets, sets := cache.counts()
	if gets != 2 {
		t.Fatalf("expected 2 cache lookups, got %d", gets)
	}
	if sets != 1 {
		t.Fatalf("cache hit must not recompute, set calls = %d", sets)
	}
}

func TestGetFleetAlerts_SnapshotFailureIsNotFatal(t *testing.T) {
	acRepo, paramRepo := fleetFixture()
	snapshots := &mockSnapshotRepo{err: errors.New("throughput exceeded")}

	perAircraft := NewGetAircraftAlertsUseCase(acRepo, paramRepo, newTestModel(), nil, logger.New("error"))
	uc := NewGetFleetAlertsUseCase(acRepo, paramRepo, perAircraft, nil, snapshots, nil, logger.New("error"))

	alerts, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert despite snapshot failure, got %d", len(alerts))
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
