package inscricao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/beneficiario"
	"github.com/lojasocial-ipb/api/internal/pedido"
	"github.com/lojasocial-ipb/api/internal/storage"
	"github.com/lojasocial-ipb/api/internal/util"
)

type contas interface {
	Criar(ctx context.Context, email, senha string) (uuid.UUID, error)
}

type beneficiarios interface {
	Add(ctx context.Context, input beneficiario.AddInput) (*beneficiario.Beneficiario, error)
}

type pedidos interface {
	Submeter(ctx context.Context, input pedido.SubmeterInput) (*pedido.Pedido, error)
}

// Documento é um arquivo enviado junto com a candidatura.
type Documento struct {
	Nome        string
	Conteudo    []byte
	ContentType string
}

// RegisterInput reúne tudo que o candidato submete de uma vez: credenciais,
// dados cadastrais, categoria de apoio e documentos comprobatórios.
type RegisterInput struct {
	Nome           string
	Email          string
	Password       string
	Telefone       string
	CC             string
	DataNascimento *time.Time
	AnoLetivoID    *uuid.UUID
	TipoPedido     string
	Documentos     []Documento
	Observacoes    string
}

// RegisterResult descreve o desfecho da inscrição. DocumentosFalhados lista os
// nomes cujos uploads não aconteceram; a candidatura segue mesmo assim, com a
// entrada correspondente nula.
type RegisterResult struct {
	BeneficiarioID     uuid.UUID `json:"beneficiario_id"`
	PedidoID           uuid.UUID `json:"pedido_id"`
	DocumentosFalhados []string  `json:"documentos_falhados,omitempty"`
}

// Service orquestra a inscrição de beneficiários.
type Service struct {
	contas        contas
	uploader      storage.Uploader
	beneficiarios beneficiarios
	pedidos       pedidos
}

// NewService cria uma nova instância do serviço.
func NewService(contas contas, uploader storage.Uploader, beneficiarios beneficiarios, pedidos pedidos) *Service {
	return &Service{contas: contas, uploader: uploader, beneficiarios: beneficiarios, pedidos: pedidos}
}

// RegisterBeneficiary executa o fluxo completo de inscrição: conta de
// autenticação, upload de documentos, registro do beneficiário em análise e a
// primeira candidatura. A criação da conta é a única etapa que aborta o fluxo;
// a partir dela, falhas são reportadas como parciais e nada é revertido.
func (s *Service) RegisterBeneficiary(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}

	uid, err := s.contas.Criar(ctx, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	docs := make(map[string]*string, len(input.Documentos))
	var falhados []string
	for _, doc := range input.Documentos {
		nome := strings.TrimSpace(doc.Nome)
		if nome == "" {
			continue
		}
		key := fmt.Sprintf("inscricoes/%s/%s", uid.String(), nome)
		res, err := s.uploader.Upload(ctx, storage.UploadInput{Key: key, Body: doc.Conteudo, ContentType: doc.ContentType})
		if err != nil {
			log.Warn().Err(err).Str("documento", nome).Msg("inscricao: upload falhou")
			docs[nome] = nil
			falhados = append(falhados, nome)
			continue
		}
		url := res.URL
		docs[nome] = &url
	}

	ben, err := s.beneficiarios.Add(ctx, beneficiario.AddInput{
		ID:             uid.String(),
		Nome:           input.Nome,
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		DataNascimento: input.DataNascimento,
		AnoLetivoID:    input.AnoLetivoID,
		Telefone:       input.Telefone,
		CC:             input.CC,
	})
	if err != nil {
		return nil, apperr.Workflow("beneficiario", err)
	}

	ped, err := s.pedidos.Submeter(ctx, pedido.SubmeterInput{
		BeneficiarioID: ben.ID.String(),
		AnoLetivoID:    input.AnoLetivoID,
		Tipo:           input.TipoPedido,
		Documentos:     docs,
		Observacoes:    input.Observacoes,
	})
	if err != nil {
		return &RegisterResult{BeneficiarioID: ben.ID, DocumentosFalhados: falhados}, apperr.Workflow("pedido", err)
	}

	return &RegisterResult{
		BeneficiarioID:     ben.ID,
		PedidoID:           ped.ID,
		DocumentosFalhados: falhados,
	}, nil
}
