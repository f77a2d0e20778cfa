package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/lojasocial-ipb/api/internal/entrega"
)

// ListEntregas devolve todas as entregas.
func (h *Handler) ListEntregas(w http.ResponseWriter, r *http.Request) {
	entregas, err := h.entregas.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entregas)
}

// AddEntrega agenda uma entrega para um beneficiário.
func (h *Handler) AddEntrega(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		BeneficiarioID string         `json:"beneficiario_id"`
		DataPrevista   time.Time      `json:"data_prevista"`
		Itens          map[string]int `json:"itens"`
		Observacoes    string         `json:"observacoes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.entregas.Add(r.Context(), entrega.AddInput{
		BeneficiarioID: payload.BeneficiarioID,
		DataPrevista:   payload.DataPrevista,
		Itens:          payload.Itens,
		Observacoes:    payload.Observacoes,
		CriadoPor:      ator(r),
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListEntregasProximas devolve entregas agendadas dentro da janela pedida.
func (h *Handler) ListEntregasProximas(w http.ResponseWriter, r *http.Request) {
	dias := 7
	if raw := r.URL.Query().Get("dias"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "dias inválido", nil)
			return
		}
		dias = parsed
	}

	entregas, err := h.entregas.Proximas(r.Context(), dias)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entregas)
}

// GetEntrega busca uma entrega.
func (h *Handler) GetEntrega(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	e, err := h.entregas.GetByID(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, e)
}

// UpdateEntregaEstado aplica transições simples (cancelar, rejeitar, voltar
// para análise). A concretização tem rota própria.
func (h *Handler) UpdateEntregaEstado(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.entregas.AtualizarEstado(r.Context(), id, payload.Estado)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// UpdateEntregaItens substitui o cabaz da entrega.
func (h *Handler) UpdateEntregaItens(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Itens map[string]int `json:"itens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	updated, err := h.entregas.UpdateItens(r.Context(), id, payload.Itens)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// MarcarEntregue concretiza a entrega, abatendo o stock na mesma transação.
func (h *Handler) MarcarEntregue(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	updated, err := h.entregas.MarcarEntregue(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ListMinhasEntregas devolve as entregas do beneficiário autenticado.
func (h *Handler) ListMinhasEntregas(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	entregas, err := h.entregas.ListPorBeneficiario(r.Context(), subject)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entregas)
}
