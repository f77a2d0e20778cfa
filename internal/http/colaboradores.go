package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/colaborador"
)

// ListColaboradores devolve a equipe da loja.
func (h *Handler) ListColaboradores(w http.ResponseWriter, r *http.Request) {
	colaboradores, err := h.colaboradores.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, colaboradores)
}

// AddColaborador cria conta e registro de colaborador numa única operação.
func (h *Handler) AddColaborador(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nome      string `json:"nome"`
		Email     string `json:"email"`
		Senha     string `json:"senha"`
		Cargo     string `json:"cargo"`
		Permissao string `json:"permissao"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.colaboradores.Add(r.Context(), colaborador.AddInput{
		Nome:      payload.Nome,
		Email:     payload.Email,
		Password:  payload.Senha,
		Cargo:     payload.Cargo,
		Permissao: payload.Permissao,
	}, ator(r))
	if err != nil {
		var we *apperr.WorkflowError
		if errors.As(err, &we) && created != nil {
			WriteJSON(w, http.StatusCreated, created)
			return
		}
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ToggleColaborador inverte o estado de atividade do colaborador.
func (h *Handler) ToggleColaborador(w http.ResponseWriter, r *http.Request) {
	uid, err := idFromURL(r, "uid")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "uid inválido", nil)
		return
	}

	updated, err := h.colaboradores.Toggle(r.Context(), uid, ator(r))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// StreamColaboradores abre fluxo SSE com snapshots completos da equipe.
func (h *Handler) StreamColaboradores(w http.ResponseWriter, r *http.Request) {
	ch, err := h.colaboradores.Subscribe(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	streamSSE(w, r, ch)
}
