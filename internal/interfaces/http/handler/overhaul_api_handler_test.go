package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dreschagin/fleet-maintenance/internal/application/dto"
	"github.com/dreschagin/fleet-maintenance/internal/application/usecase"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/service"
	"github.com/dreschagin/fleet-maintenance/internal/domain/valueobject"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

func overhaulFixture(params map[string]*entity.MonitoredParameter) (*OverhaulAPIHandler, *stubParameterRepo) {
	log := logger.New("error")
	model := service.NewOverhaulModel(service.NewThresholdEvaluator(), service.NewThresholdDefaults())

	paramRepo := &stubParameterRepo{params: params}
	uc := usecase.NewCompleteOverhaulUseCase(paramRepo, model, nil, nil, log)

	return NewOverhaulAPIHandler(uc, log), paramRepo
}

func TestCompleteOverhaul(t *testing.T) {
	h, paramRepo := overhaulFixture(map[string]*entity.MonitoredParameter{
		"p-1": overdueParameter("p-1"),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parameters/p-1/overhaul", nil)
	req.SetPathValue("id", "p-1")
	rec := httptest.NewRecorder()

	h.CompleteOverhaul(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var parameter dto.ParameterDTO
	if err := json.NewDecoder(rec.Body).Decode(&parameter); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if parameter.Overhaul == nil {
		t.Fatal("expected overhaul config in response")
	}
	if parameter.Overhaul.CurrentCycle != 1 {
		t.Errorf("expected cycle 1 after overhaul, got %d", parameter.Overhaul.CurrentCycle)
	}
	if len(paramRepo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(paramRepo.saved))
	}
}

func TestCompleteOverhaul_CyclesExhausted(t *testing.T) {
	retired := entity.ReconstructParameter(
		"p-retired", "comp-1", "OH-CHECK",
		5000, 10000,
		valueobject.Hours,
		&valueobject.OverhaulConfig{
			Enabled:             true,
			IntervalHours:       500,
			CurrentCycle:        10,
			MaxCycles:           10,
			HoursAtLastOverhaul: 5000,
		},
		valueobject.StateLifeExpired,
		true,
		valueobject.ColorPurple,
		time.Now(), time.Now(),
	)
	h, paramRepo := overhaulFixture(map[string]*entity.MonitoredParameter{
		"p-retired": retired,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parameters/p-retired/overhaul", nil)
	req.SetPathValue("id", "p-retired")
	rec := httptest.NewRecorder()

	h.CompleteOverhaul(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	if len(paramRepo.saved) != 0 {
		t.Fatalf("expected no saves for retired parameter, got %d", len(paramRepo.saved))
	}
}

func TestCompleteOverhaul_UnknownParameter(t *testing.T) {
	h, _ := overhaulFixture(map[string]*entity.MonitoredParameter{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/parameters/ghost/overhaul", nil)
	req.SetPathValue("id", "ghost")
	rec := httptest.NewRecorder()

	h.CompleteOverhaul(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
