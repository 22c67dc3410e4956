package api

import (
	"io"
	"net/http"

	"github.com/shaiso/flowmodeler/internal/catalog"
	"github.com/shaiso/flowmodeler/internal/engine"
	"github.com/shaiso/flowmodeler/internal/telemetry"
)

// maxFlowDocument — предельный размер документа flow в запросе.
const maxFlowDocument = 4 << 20

// ListFlows возвращает список flows каталога.
// GET /api/v1/flows
func (h *Handler) ListFlows(w http.ResponseWriter, r *http.Request) {
	current := h.catalog.Current()
	ids := current.IDs()

	result := make([]FlowSummary, len(ids))
	for i, id := range ids {
		flow, _ := current.LookupFlow(id)
		result[i] = FlowSummaryFromDomain(id, flow)
	}

	List(w, result, len(result))
}

// GetFlow возвращает документ flow из каталога.
// GET /api/v1/flows/{id}
func (h *Handler) GetFlow(w http.ResponseWriter, r *http.Request) {
	flow, ok := h.catalog.LookupFlow(r.PathValue("id"))
	if !ok {
		NotFound(w, "flow not found")
		return
	}

	Success(w, flow)
}

// ValidateFlow проверяет документ flow (YAML или JSON) без сохранения.
// POST /api/v1/flows/validate
func (h *Handler) ValidateFlow(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxFlowDocument))
	if err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	flow, err := catalog.DecodeFlow(data)
	if HandleError(w, h.logger, err, "") {
		return
	}

	Success(w, ValidationFromProblems(engine.Problems(flow)))
}

// ImportFlow сохраняет документ flow в хранилище и обновляет каталог.
// PUT /api/v1/flows/{id}
func (h *Handler) ImportFlow(w http.ResponseWriter, r *http.Request) {
	if h.flows == nil {
		NotConfigured(w, "flow storage is not configured")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxFlowDocument))
	if err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	flow, err := catalog.DecodeFlow(data)
	if HandleError(w, h.logger, err, "") {
		return
	}
	flow.ID = r.PathValue("id")

	if err := engine.ValidateFlow(flow); HandleError(w, h.logger, err, "") {
		return
	}

	if err := h.flows.Upsert(r.Context(), flow); HandleError(w, h.logger, err, "") {
		return
	}

	logger := telemetry.WithFlowID(h.logger, flow.ID)
	logger.Info("flow imported")

	h.catalogChanged(r, flow.ID)

	Success(w, FlowSummaryFromDomain(flow.ID, flow))
}

// DeleteFlow удаляет flow из хранилища.
// Открытые сессии продолжают работать со своим снимком.
// DELETE /api/v1/flows/{id}
func (h *Handler) DeleteFlow(w http.ResponseWriter, r *http.Request) {
	if h.flows == nil {
		NotConfigured(w, "flow storage is not configured")
		return
	}

	id := r.PathValue("id")
	if err := h.flows.Delete(r.Context(), id); HandleError(w, h.logger, err, "flow not found") {
		return
	}

	telemetry.WithFlowID(h.logger, id).Info("flow deleted")

	h.catalogChanged(r, id)

	NoContent(w)
}

// catalogChanged перезагружает каталог этого экземпляра и оповещает
// остальные экземпляры API событием catalog.changed.
func (h *Handler) catalogChanged(r *http.Request, flowID string) {
	if h.reloader != nil {
		if err := h.reloader.Reload(r.Context()); err != nil {
			h.logger.Error("catalog reload failed", "flow_id", flowID, "error", err)
		}
	}

	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishCatalogChanged(r.Context(), flowID); err != nil {
		h.logger.Warn("failed to publish catalog change", "flow_id", flowID, "error", err)
	}
}
