package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/stock"
)

// ListProdutos devolve o catálogo de produtos.
func (h *Handler) ListProdutos(w http.ResponseWriter, r *http.Request) {
	produtos, err := h.stock.ListProdutos(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, produtos)
}

// AddProduto registra um novo produto no catálogo.
func (h *Handler) AddProduto(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Nome        string `json:"nome"`
		Tipo        string `json:"tipo"`
		FotoURL     string `json:"foto_url"`
		Observacoes string `json:"observacoes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.stock.AddProduto(r.Context(), stock.AddProdutoInput{
		Nome:        payload.Nome,
		Tipo:        payload.Tipo,
		FotoURL:     payload.FotoURL,
		Observacoes: payload.Observacoes,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// ListItens devolve os lotes em stock.
func (h *Handler) ListItens(w http.ResponseWriter, r *http.Request) {
	itens, err := h.stock.ListItens(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, itens)
}

// AddItem registra a entrada de um lote.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProdutoID    string     `json:"produto_id"`
		CampanhaID   *uuid.UUID `json:"campanha_id"`
		Quantidade   int        `json:"quantidade"`
		DataValidade time.Time  `json:"data_validade"`
		Observacoes  string     `json:"observacoes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	created, err := h.stock.AddItem(r.Context(), stock.AddItemInput{
		ProdutoID:    payload.ProdutoID,
		CampanhaID:   payload.CampanhaID,
		Quantidade:   payload.Quantidade,
		DataValidade: payload.DataValidade,
		Observacoes:  payload.Observacoes,
	})
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, created)
}

// UpdateQuantidade ajusta a quantidade de um lote. Valores negativos nunca
// chegam ao armazenamento.
func (h *Handler) UpdateQuantidade(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var payload struct {
		Quantidade int `json:"quantidade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "JSON inválido", nil)
		return
	}

	updated, err := h.stock.UpdateQuantidade(r.Context(), id, payload.Quantidade)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ListExpirando devolve lotes cuja validade termina dentro da janela pedida.
func (h *Handler) ListExpirando(w http.ResponseWriter, r *http.Request) {
	dias := 7
	if raw := r.URL.Query().Get("dias"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "dias inválido", nil)
			return
		}
		dias = parsed
	}

	itens, err := h.stock.Expirando(r.Context(), dias)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, itens)
}
