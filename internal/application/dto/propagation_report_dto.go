package dto

import "time"

// Исход обработки одного компонента в пакете распространения
const (
	OutcomeUpdated = "updated"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Итоговый статус пакета. Частичный успех считается самостоятельным статусом:
// дефект данных одного компонента не превращает весь пакет в отказ
const (
	ReportStatusCompleted = "completed"
	ReportStatusPartial   = "partial"
	ReportStatusNoOp      = "no_op"
	ReportStatusRejected  = "rejected"
)

// ComponentOutcomeDTO представляет исход обработки одного компонента
type ComponentOutcomeDTO struct {
	ComponentID       string `json:"component_id"`
	ComponentName     string `json:"component_name,omitempty"`
	Outcome           string `json:"outcome"`
	ParametersUpdated int    `json:"parameters_updated"`
	ParameterErrors   int    `json:"parameter_errors"`
	Error             string `json:"error,omitempty"`
}

// PropagationReportDTO представляет структурированный отчет пакета
// распространения налета
type PropagationReportDTO struct {
	ReportID           string                `json:"report_id"`
	AircraftID         string                `json:"aircraft_id"`
	Increment          float64               `json:"increment"`
	NewCumulativeHours float64               `json:"new_cumulative_hours"`
	ComponentsUpdated  int                   `json:"components_updated"`
	ParametersUpdated  int                   `json:"parameters_updated"`
	Outcomes           []ComponentOutcomeDTO `json:"outcomes"`
	Errors             []string              `json:"errors"`
	SkippedComponents  int                   `json:"skipped_components"`
	Status             string                `json:"status"`
	StartedAt          time.Time             `json:"started_at"`
	CompletedAt        time.Time             `json:"completed_at"`
}

// Success сообщает, можно ли считать пакет успешным: ошибок нет вовсе
// либо хотя бы один компонент обновлен
func (r *PropagationReportDTO) Success() bool {
	if r.Status == ReportStatusRejected {
		return false
	}
	return len(r.Errors) == 0 || r.ComponentsUpdated > 0
}

// Finalize проставляет итоговый статус и время завершения
func (r *PropagationReportDTO) Finalize() {
	r.CompletedAt = time.Now()

	switch {
	case r.Status == ReportStatusRejected || r.Status == ReportStatusNoOp:
		// Статус уже определен до пакетной фазы
	case len(r.Errors) == 0:
		r.Status = ReportStatusCompleted
	default:
		r.Status = ReportStatusPartial
	}
}
