package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dreschagin/fleet-maintenance/internal/application/usecase"
	"github.com/dreschagin/fleet-maintenance/internal/domain/entity"
	"github.com/dreschagin/fleet-maintenance/internal/domain/repository"
	"github.com/dreschagin/fleet-maintenance/pkg/logger"
)

// OverhaulAPIHandler регистрирует выполненный overhaul через API
type OverhaulAPIHandler struct {
	completeOverhaulUC *usecase.CompleteOverhaulUseCase
	logger             *logger.Logger
}

// NewOverhaulAPIHandler создает новый handler
func NewOverhaulAPIHandler(
	completeOverhaulUC *usecase.CompleteOverhaulUseCase,
	logger *logger.Logger,
) *OverhaulAPIHandler {
	return &OverhaulAPIHandler{
		completeOverhaulUC: completeOverhaulUC,
		logger:             logger,
	}
}

// CompleteOverhaul переводит параметр в следующий цикл overhaul
func (h *OverhaulAPIHandler) CompleteOverhaul(w http.ResponseWriter, r *http.Request) {
	parameterID := r.PathValue("id")
	if parameterID == "" {
		http.Error(w, "Missing parameter id", http.StatusBadRequest)
		return
	}

	parameter, err := h.completeOverhaulUC.Execute(r.Context(), parameterID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			http.Error(w, "Parameter not found", http.StatusNotFound)
		case errors.Is(err, entity.ErrOverhaulNotEnabled):
			http.Error(w, "Overhaul tracking is not enabled for this parameter", http.StatusConflict)
		case errors.Is(err, entity.ErrCyclesExhausted):
			http.Error(w, "Overhaul cycle limit exhausted, parameter is retired", http.StatusConflict)
		default:
			h.logger.Error("Failed to complete overhaul", err, "parameter_id", parameterID)
			http.Error(w, "Failed to complete overhaul", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(parameter); err != nil {
		h.logger.Error("Failed to encode overhaul response", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
