package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dreschagin/fleet-maintenance/internal/application/usecase"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// AlertsAPIHandler обрабатывает API запросы для alerts
type AlertsAPIHandler struct {
	getFleetAlertsUC    *usecase.GetFleetAlertsUseCase
	getAircraftAlertsUC *usecase.GetAircraftAlertsUseCase
	logger              *logger.Logger
}

// NewAlertsAPIHandler создает новый handler
func NewAlertsAPIHandler(
	getFleetAlertsUC *usecase.GetFleetAlertsUseCase,
	getAircraftAlertsUC *usecase.GetAircraftAlertsUseCase,
	logger *logger.Logger,
) *AlertsAPIHandler {
	return &AlertsAPIHandler{
		getFleetAlertsUC:    getFleetAlertsUC,
		getAircraftAlertsUC: getAircraftAlertsUC,
		logger:              logger,
	}
}

// GetFleetAlerts возвращает alerts всего флота, по убыванию срочности
func (h *AlertsAPIHandler) GetFleetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.getFleetAlertsUC.Execute(r.Context())
	if err != nil {
		h.logger.Error("Failed to get fleet alerts", err)
		http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	writeAlerts(w, alerts, h.logger)
}

// GetAircraftAlerts возвращает alerts одного судна
func (h *AlertsAPIHandler) GetAircraftAlerts(w http.ResponseWriter, r *http.Request) {
	aircraftID := r.PathValue("id")
	if aircraftID == "" {
		http.Error(w, "Missing aircraft id", http.StatusBadRequest)
		return
	}

	alerts, err := h.getAircraftAlertsUC.Execute(r.Context(), aircraftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Aircraft not found", http.StatusNotFound)
			return
		}
		h.logger.Error("Failed to get aircraft alerts", err, "aircraft_id", aircraftID)
		http.Error(w, "Failed to fetch alerts", http.StatusInternalServerError)
		return
	}

	writeAlerts(w, alerts, h.logger)
}

func writeAlerts(w http.ResponseWriter, alerts any, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(alerts); err != nil {
		log.Error("Failed to encode alerts response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
