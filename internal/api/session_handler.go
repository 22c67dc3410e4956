package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/shaiso/flowmodeler/internal/mq"
	"github.com/shaiso/flowmodeler/internal/render"
)

// OpenSession открывает сессию редактирования.
// POST /api/v1/sessions
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req OpenSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	session, err := h.sessions.Open(req.FlowID)
	if HandleError(w, h.logger, err, "") {
		return
	}

	Created(w, SessionFromState(session.State()))
}

// GetSession возвращает состояние сессии.
// GET /api/v1/sessions/{id}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	Success(w, SessionFromState(session.State()))
}

// CloseSession закрывает сессию.
// DELETE /api/v1/sessions/{id}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return
	}

	if err := h.sessions.Close(id); HandleError(w, h.logger, err, "session not found") {
		return
	}

	NoContent(w)
}

// SelectFlow загружает flow в сессию.
// PUT /api/v1/sessions/{id}/flow
func (h *Handler) SelectFlow(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectFlowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	Success(w, SessionFromState(session.SelectFlow(req.FlowID)))
}

// SelectSubflow выбирает subflow в сессии.
// PUT /api/v1/sessions/{id}/subflow
func (h *Handler) SelectSubflow(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req SelectSubflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	Success(w, SessionFromState(session.SelectSubflow(req.SubflowID)))
}

// UpdateElement заменяет value элемента в слоте.
// PUT /api/v1/sessions/{id}/elements
//
// Пропущенная правка — не ошибка: ответ 200 с applied=false.
func (h *Handler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	var req UpdateElementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	value, err := req.DecodeValue()
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	result := session.UpdateElement(req.Location, value)

	if result.Applied && h.publisher != nil {
		err := h.publisher.PublishElementUpdated(r.Context(), mq.ElementUpdatedPayload{
			SessionID: session.ID.String(),
			FlowID:    result.FlowID,
			SubflowID: result.SubflowID,
			ElementID: result.ElementID,
			Location:  req.Location,
		})
		if err != nil {
			h.logger.Warn("failed to publish element update", "session_id", session.ID, "error", err)
		}
	}

	Success(w, UpdateFromResult(result))
}

// GetLayout возвращает слоты текущего subflow.
// GET /api/v1/sessions/{id}/layout
func (h *Handler) GetLayout(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	state, slots := session.Layout()
	Success(w, LayoutFromSlots(state, slots))
}

// GetLayoutSVG рисует текущий subflow как SVG.
// GET /api/v1/sessions/{id}/layout.svg
func (h *Handler) GetLayoutSVG(w http.ResponseWriter, r *http.Request) {
	session, ok := h.session(w, r)
	if !ok {
		return
	}

	_, slots := session.Layout()

	var buf bytes.Buffer
	if err := render.SVG(&buf, slots); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// session находит сессию по {id}. При ошибке ответ уже отправлен.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid session id")
		return nil, false
	}

	session, err := h.sessions.Get(id)
	if HandleError(w, h.logger, err, "session not found") {
		return nil, false
	}
	return session, true
}
