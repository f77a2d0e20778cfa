package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/campanha"
)

// ListCampanhas devolve todas as campanhas. A rota é pública: campanhas
// externas são divulgadas à comunidade.
func (h *Handler) ListCampanhas(w http.ResponseWriter, r *http.Request) {
	campanhas, err := h.campanhas.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, campanhas)
}

// AddCampanha cria uma campanha de recolha.
func (h *Handler) AddCampanha(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Titulo              string      `json:"titulo"`
		Descricao           string      `json:"descricao"`
		Inicio              time.Time   `json:"inicio"`
		Fim                 time.Time   `json:"fim"`
		Tipo                string      `json:"tipo"`
		Estado              string      `json:"estado"`
		ImagemURL           string      `json:"imagem_url"`
		ProdutosNecessarios []uuid.UUID `json:"produtos_necessarios"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.campanhas.Add(r.Context(), campanha.AddInput{
		Titulo:              payload.Titulo,
		Descricao:           payload.Descricao,
		Inicio:              payload.Inicio,
		Fim:                 payload.Fim,
		Tipo:                payload.Tipo,
		Estado:              payload.Estado,
		ImagemURL:           payload.ImagemURL,
		ProdutosNecessarios: payload.ProdutosNecessarios,
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

// GetCampanha busca uma campanha.
func (h *Handler) GetCampanha(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	c, err := h.campanhas.GetByID(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// UpdateCampanhaEstado aplica transição do ciclo de vida da campanha.
func (h *Handler) UpdateCampanhaEstado(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Estado string `json:"estado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	updated, err := h.campanhas.AtualizarEstado(r.Context(), id, payload.Estado, ator(r))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}
