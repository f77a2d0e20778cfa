package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/inscricao"
)

// RegisterBeneficiario processa a inscrição pública de um beneficiário:
// credenciais, dados cadastrais e documentos num único multipart.
func (h *Handler) RegisterBeneficiario(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "multipart inválido", nil)
		return
	}

	input := inscricao.RegisterInput{
		Nome:        r.FormValue("nome"),
		Email:       r.FormValue("email"),
		Password:    r.FormValue("senha"),
		Telefone:    r.FormValue("telefone"),
		CC:          r.FormValue("cc"),
		TipoPedido:  r.FormValue("tipo_pedido"),
		Observacoes: r.FormValue("observacoes"),
	}

	if raw := r.FormValue("data_nascimento"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "data_nascimento inválida", nil)
			return
		}
		input.DataNascimento = &parsed
	}

	if raw := r.FormValue("ano_letivo_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "ano_letivo_id inválido", nil)
			return
		}
		input.AnoLetivoID = &parsed
	}

	if r.MultipartForm != nil {
		for campo, files := range r.MultipartForm.File {
			for _, header := range files {
				file, err := header.Open()
				if err != nil {
					continue
				}
				conteudo, err := io.ReadAll(file)
				file.Close()
				if err != nil {
					continue
				}
				input.Documentos = append(input.Documentos, inscricao.Documento{
					Nome:        campo,
					Conteudo:    conteudo,
					ContentType: header.Header.Get("Content-Type"),
				})
			}
		}
	}

	result, err := h.inscricoes.RegisterBeneficiary(r.Context(), input)
	if err != nil {
		var we *apperr.WorkflowError
		if errors.As(err, &we) && result != nil {
			WriteError(w, http.StatusMultiStatus, "WORKFLOW", we.Error(), result)
			return
		}
		h.handleDomainError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, result)
}
