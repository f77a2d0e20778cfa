package http

import (
	"net/http"
	"strconv"
)

func limitFromQuery(r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, false
	}
	return limit, true
}

// ListLogs devolve as entradas de auditoria mais recentes.
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitFromQuery(r, 100)
	if !ok {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "limit inválido", nil)
		return
	}

	logs, err := h.auditoria.List(r.Context(), limit)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, logs)
}

// StreamLogs abre fluxo SSE com snapshots do log de auditoria.
func (h *Handler) StreamLogs(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitFromQuery(r, 100)
	if !ok {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "limit inválido", nil)
		return
	}

	ch, err := h.auditoria.Subscribe(r.Context(), limit)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	streamSSE(w, r, ch)
}

// ListNotificacoes devolve a fila de notificações mais recentes.
func (h *Handler) ListNotificacoes(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitFromQuery(r, 100)
	if !ok {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "limit inválido", nil)
		return
	}

	notificacoes, err := h.notificacoes.List(r.Context(), limit)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, notificacoes)
}

// StreamNotificacoes abre fluxo SSE com snapshots da fila de notificações.
func (h *Handler) StreamNotificacoes(w http.ResponseWriter, r *http.Request) {
	limit, ok := limitFromQuery(r, 100)
	if !ok {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "limit inválido", nil)
		return
	}

	ch, err := h.notificacoes.Subscribe(r.Context(), limit)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	streamSSE(w, r, ch)
}
