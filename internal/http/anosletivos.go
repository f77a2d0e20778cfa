package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lojasocial-ipb/api/internal/anoletivo"
)

// ListAnosLetivos devolve os anos letivos, mais recentes primeiro.
func (h *Handler) ListAnosLetivos(w http.ResponseWriter, r *http.Request) {
	anos, err := h.anosLetivos.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, anos)
}

// CreateAnoLetivo abre um novo ano letivo.
func (h *Handler) CreateAnoLetivo(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nome   string    `json:"nome"`
		Inicio time.Time `json:"inicio"`
		Fim    time.Time `json:"fim"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.anosLetivos.Create(r.Context(), anoletivo.CreateInput{
		Nome:   payload.Nome,
		Inicio: payload.Inicio,
		Fim:    payload.Fim,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// StreamAnosLetivos abre fluxo SSE com snapshots completos da lista.
func (h *Handler) StreamAnosLetivos(w http.ResponseWriter, r *http.Request) {
	ch, err := h.anosLetivos.Subscribe(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	streamSSE(w, r, ch)
}
