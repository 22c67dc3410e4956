package api

import (
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/flowmodeler/internal/domain"
	"github.com/shaiso/flowmodeler/internal/engine"
	"github.com/shaiso/flowmodeler/internal/modeler"
)

// Flow DTOs

// FlowSummary — элемент списка flows каталога.
type FlowSummary struct {
	ID string `json:"id"`

	// Available — false, если ID зарегистрирован без flow.
	Available bool     `json:"available"`
	Main      string   `json:"main,omitempty"`
	Subflows  []string `json:"subflows,omitempty"`
}

// FlowSummaryFromDomain конвертирует flow каталога в FlowSummary.
func FlowSummaryFromDomain(id string, f *domain.Flow) FlowSummary {
	if f == nil {
		return FlowSummary{ID: id}
	}
	return FlowSummary{
		ID:        id,
		Available: true,
		Main:      f.Main,
		Subflows:  slices.Sorted(maps.Keys(f.Subflows)),
	}
}

// ProblemResponse — одна проблема валидации flow.
type ProblemResponse struct {
	SubflowID string `json:"subflow_id,omitempty"`
	ElementID string `json:"element_id,omitempty"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
}

// ValidationResponse — результат валидации flow.
type ValidationResponse struct {
	Valid    bool              `json:"valid"`
	Problems []ProblemResponse `json:"problems"`
}

// ValidationFromProblems конвертирует проблемы engine в ValidationResponse.
func ValidationFromProblems(problems []*engine.ValidationError) ValidationResponse {
	resp := ValidationResponse{
		Valid:    len(problems) == 0,
		Problems: make([]ProblemResponse, len(problems)),
	}
	for i, p := range problems {
		resp.Problems[i] = ProblemResponse{
			SubflowID: p.SubflowID,
			ElementID: p.ElementID,
			Field:     p.Field,
			Message:   p.Message,
		}
	}
	return resp
}

// Session DTOs

// OpenSessionRequest — запрос на открытие сессии.
type OpenSessionRequest struct {
	FlowID string `json:"flow_id"`
}

// SelectFlowRequest — запрос на выбор flow.
type SelectFlowRequest struct {
	FlowID string `json:"flow_id"`
}

// SelectSubflowRequest — запрос на выбор subflow.
type SelectSubflowRequest struct {
	SubflowID string `json:"subflow_id"`
}

// UpdateElementRequest — запрос на замену value элемента.
type UpdateElementRequest struct {
	Location domain.Location    `json:"location"`
	Type     domain.ElementKind `json:"type"`
	Value    json.RawMessage    `json:"value"`
}

// errTypeRequired — в запросе правки не указан вид value.
var errTypeRequired = errors.New("type is required")

// DecodeValue декодирует value запроса по его виду.
// null даёт пустое значение: такая правка будет отклонена Store.
func (r UpdateElementRequest) DecodeValue() (domain.ElementValue, error) {
	if r.Type == "" {
		return nil, errTypeRequired
	}
	return domain.DecodeValue(r.Type, r.Value)
}

// SessionResponse — ответ с состоянием сессии.
type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	FlowID    string    `json:"flow_id,omitempty"`
	SubflowID string    `json:"subflow_id"`
	Subflows  []string  `json:"subflows,omitempty"`
	Loaded    bool      `json:"loaded"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionFromState конвертирует SessionState в SessionResponse.
func SessionFromState(s SessionState) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		FlowID:    s.FlowID,
		SubflowID: s.SubflowID,
		Subflows:  s.Subflows,
		Loaded:    s.Loaded,
		CreatedAt: s.CreatedAt,
	}
}

// UpdateElementResponse — результат правки.
// Правка, которая ничего не изменила, не является ошибкой.
type UpdateElementResponse struct {
	Applied   bool   `json:"applied"`
	Reason    string `json:"reason"`
	ElementID string `json:"element_id,omitempty"`
}

// UpdateFromResult конвертирует UpdateResult в UpdateElementResponse.
func UpdateFromResult(r UpdateResult) UpdateElementResponse {
	return UpdateElementResponse{
		Applied:   r.Applied,
		Reason:    r.Reason.String(),
		ElementID: r.ElementID,
	}
}

// LayoutResponse — слоты текущего subflow.
type LayoutResponse struct {
	FlowID    string         `json:"flow_id,omitempty"`
	SubflowID string         `json:"subflow_id"`
	Slots     []modeler.Slot `json:"slots"`
}

// LayoutFromSlots собирает LayoutResponse.
func LayoutFromSlots(state SessionState, slots []modeler.Slot) LayoutResponse {
	if slots == nil {
		slots = []modeler.Slot{}
	}
	return LayoutResponse{
		FlowID:    state.FlowID,
		SubflowID: state.SubflowID,
		Slots:     slots,
	}
}
