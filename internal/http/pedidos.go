package http

import (
	"encoding/json"
	"io"
	"net/http"
)

// ListPedidos devolve todos os pedidos.
func (h *Handler) ListPedidos(w http.ResponseWriter, r *http.Request) {
	pedidos, err := h.pedidos.List(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pedidos)
}

// ListPedidosComDetalhes devolve os pedidos com o nome do beneficiário, para o
// painel da equipe.
func (h *Handler) ListPedidosComDetalhes(w http.ResponseWriter, r *http.Request) {
	detalhes, err := h.pedidos.ListComDetalhes(r.Context())
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, detalhes)
}

// GetPedido busca um pedido.
func (h *Handler) GetPedido(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	p, err := h.pedidos.GetByID(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// UpdatePedidoEstado aplica a decisão da equipe e notifica o beneficiário.
func (h *Handler) UpdatePedidoEstado(w http.ResponseWriter, r *http.Request) {
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

	atual, err := h.pedidos.GetByID(r.Context(), id)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}

	email := ""
	if ben, err := h.beneficiarios.GetByID(r.Context(), atual.BeneficiarioID); err == nil {
		email = ben.Email
	}

	updated, err := h.pedidos.AtualizarEstado(r.Context(), id, payload.Estado, email)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// AnexarDocumento recebe um arquivo multipart e acrescenta a URL resultante ao
// mapa de documentos do pedido.
func (h *Handler) AnexarDocumento(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "multipart inválido", nil)
		return
	}

	file, header, err := r.FormFile("documento")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "documento ausente", nil)
		return
	}
	defer file.Close()

	conteudo, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "documento ilegível", nil)
		return
	}

	nome := r.FormValue("nome")
	if nome == "" {
		nome = header.Filename
	}

	updated, err := h.pedidos.AnexarDocumento(r.Context(), id, nome, conteudo, header.Header.Get("Content-Type"))
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// ListMeusPedidos devolve os pedidos do beneficiário autenticado.
func (h *Handler) ListMeusPedidos(w http.ResponseWriter, r *http.Request) {
	subject, err := h.subjectUUID(r)
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "subject inválido", nil)
		return
	}

	pedidos, err := h.pedidos.ListPorBeneficiario(r.Context(), subject)
	if err != nil {
		h.handleDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, pedidos)
}
