package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Flows
	mux.Handle("GET /api/v1/flows", chain(http.HandlerFunc(h.ListFlows)))
	mux.Handle("POST /api/v1/flows/validate", chain(http.HandlerFunc(h.ValidateFlow)))
	mux.Handle("GET /api/v1/flows/{id}", chain(http.HandlerFunc(h.GetFlow)))
	mux.Handle("PUT /api/v1/flows/{id}", chain(http.HandlerFunc(h.ImportFlow)))
	mux.Handle("DELETE /api/v1/flows/{id}", chain(http.HandlerFunc(h.DeleteFlow)))

	// Sessions
	mux.Handle("POST /api/v1/sessions", chain(http.HandlerFunc(h.OpenSession)))
	mux.Handle("GET /api/v1/sessions/{id}", chain(http.HandlerFunc(h.GetSession)))
	mux.Handle("DELETE /api/v1/sessions/{id}", chain(http.HandlerFunc(h.CloseSession)))
	mux.Handle("PUT /api/v1/sessions/{id}/flow", chain(http.HandlerFunc(h.SelectFlow)))
	mux.Handle("PUT /api/v1/sessions/{id}/subflow", chain(http.HandlerFunc(h.SelectSubflow)))
	mux.Handle("PUT /api/v1/sessions/{id}/elements", chain(http.HandlerFunc(h.UpdateElement)))
	mux.Handle("GET /api/v1/sessions/{id}/layout", chain(http.HandlerFunc(h.GetLayout)))
	mux.Handle("GET /api/v1/sessions/{id}/layout.svg", chain(http.HandlerFunc(h.GetLayoutSVG)))
}
