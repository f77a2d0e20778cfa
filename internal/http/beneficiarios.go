package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/beneficiario"
)

type beneficiarioPayload struct {
	ID             string     `json:"id"`
	Nome           string     `json:"nome"`
	Email          string     `json:"email"`
	DataNascimento *time.Time `json:"data_nascimento"`
	AnoLetivoID    *uuid.UUID `json:"ano_letivo_id"`
	Telefone       string     `json:"telefone"`
	CC             string     `json:"cc"`
}

// ListBeneficiarios devolve todos os beneficiários, ordenados por nome.
func (h *Handler) ListBeneficiarios(w http.ResponseWriter, r *http.Request) {
	beneficiarios, err := h.beneficiarios.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, beneficiarios)
}

// AddBeneficiario registra um beneficiário cuja conta já existe.
func (h *Handler) AddBeneficiario(w http.ResponseWriter, r *http.Request) {
	var payload beneficiarioPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.beneficiarios.Add(r.Context(), beneficiario.AddInput{
		ID:             payload.ID,
		Nome:           payload.Nome,
		Email:          payload.Email,
		DataNascimento: payload.DataNascimento,
		AnoLetivoID:    payload.AnoLetivoID,
		Telefone:       payload.Telefone,
		CC:             payload.CC,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// GetBeneficiario busca um beneficiário.
func (h *Handler) GetBeneficiario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	b, err := h.beneficiarios.GetByID(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, b)
}

// UpdateBeneficiario edita dados cadastrais.
func (h *Handler) UpdateBeneficiario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Nome           *string    `json:"nome"`
		Email          *string    `json:"email"`
		DataNascimento *time.Time `json:"data_nascimento"`
		AnoLetivoID    *uuid.UUID `json:"ano_letivo_id"`
		Telefone       *string    `json:"telefone"`
		CC             *string    `json:"cc"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	updated, err := h.beneficiarios.Update(r.Context(), beneficiario.UpdateInput{
		ID:             id,
		Nome:           payload.Nome,
		Email:          payload.Email,
		DataNascimento: payload.DataNascimento,
		AnoLetivoID:    payload.AnoLetivoID,
		Telefone:       payload.Telefone,
		CC:             payload.CC,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// UpdateBeneficiarioEstado aplica transição de estado (o desligamento é sempre
// uma transição para INATIVO, nunca remoção).
func (h *Handler) UpdateBeneficiarioEstado(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.beneficiarios.AtualizarEstado(r.Context(), id, payload.Estado)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ListPedidosDoBeneficiario devolve os pedidos de um beneficiário.
func (h *Handler) ListPedidosDoBeneficiario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	pedidos, err := h.pedidos.ListPorBeneficiario(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pedidos)
}

// ListEntregasDoBeneficiario devolve as entregas de um beneficiário.
func (h *Handler) ListEntregasDoBeneficiario(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	entregas, err := h.entregas.ListPorBeneficiario(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, entregas)
}
