package pedido

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/storage"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, p *Pedido) (*Pedido, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Pedido, error)
	List(ctx context.Context) ([]Pedido, error)
	ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Pedido, error)
	ListComDetalhes(ctx context.Context) ([]Detalhe, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error
	UpdateDocumentos(ctx context.Context, id uuid.UUID, documentos map[string]*string) (*Pedido, error)
}

type notificador interface {
	Enfileirar(ctx context.Context, destinatario, titulo, mensagem string) error
}

// Service reúne regras de negócio de pedidos de apoio.
type Service struct {
	repo     repository
	uploader storage.Uploader
	notifica notificador
}

// NewService cria uma nova instância do serviço. notifica pode ser nil.
func NewService(repo repository, uploader storage.Uploader, notifica notificador) *Service {
	return &Service{repo: repo, uploader: uploader, notifica: notifica}
}

// Submeter registra uma nova candidatura em análise.
func (s *Service) Submeter(ctx context.Context, input SubmeterInput) (*Pedido, error) {
	if err := util.RequireString(input.BeneficiarioID, "beneficiario_id"); err != nil {
		return nil, err
	}

	beneficiarioID, err := uuid.Parse(strings.TrimSpace(input.BeneficiarioID))
	if err != nil {
		return nil, apperr.Validation("beneficiario_id", "inválido")
	}

	docs := input.Documentos
	if docs == nil {
		docs = map[string]*string{}
	}

	return s.repo.Insert(ctx, &Pedido{
		BeneficiarioID: beneficiarioID,
		AnoLetivoID:    input.AnoLetivoID,
		DataSubmissao:  util.Now(),
		Estado:         EstadoAnalise,
		Tipo:           Tipos.FromWire(strings.ToUpper(strings.TrimSpace(input.Tipo))),
		Documentos:     docs,
		Observacoes:    strings.TrimSpace(input.Observacoes),
	})
}

// GetByID busca um pedido.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Pedido, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve todos os pedidos.
func (s *Service) List(ctx context.Context) ([]Pedido, error) {
	return s.repo.List(ctx)
}

// ListPorBeneficiario devolve os pedidos de um beneficiário.
func (s *Service) ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Pedido, error) {
	return s.repo.ListPorBeneficiario(ctx, beneficiarioID)
}

// ListComDetalhes devolve os pedidos com o nome do beneficiário.
func (s *Service) ListComDetalhes(ctx context.Context) ([]Detalhe, error) {
	return s.repo.ListComDetalhes(ctx)
}

// AtualizarEstado aplica a decisão da equipe e enfileira a notificação ao
// beneficiário. O enfileiramento é melhor-esforço: falha apenas é logada.
func (s *Service) AtualizarEstado(ctx context.Context, id uuid.UUID, novo string, emailBeneficiario string) (*Pedido, error) {
	raw := strings.ToUpper(strings.TrimSpace(novo))
	if !Estados.Contains(raw) {
		return nil, apperr.Validation("estado", "desconhecido")
	}

	if err := s.repo.UpdateEstado(ctx, id, Estado(raw)); err != nil {
		return nil, err
	}

	atualizado, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.notifica != nil {
		mensagem := fmt.Sprintf("O seu pedido de apoio passou ao estado %s.", raw)
		if err := s.notifica.Enfileirar(ctx, emailBeneficiario, "Atualização do pedido", mensagem); err != nil {
			log.Warn().Err(err).Str("pedido", id.String()).Msg("pedido: notificação não enfileirada")
		}
	}

	return atualizado, nil
}

// AnexarDocumento envia o arquivo para o storage e acrescenta a URL ao mapa de
// documentos existente. O mapa nunca é substituído por inteiro.
func (s *Service) AnexarDocumento(ctx context.Context, id uuid.UUID, nome string, conteudo []byte, contentType string) (*Pedido, error) {
	if err := util.RequireString(nome, "nome"); err != nil {
		return nil, err
	}
	if len(conteudo) == 0 {
		return nil, apperr.Validation("conteudo", "vazio")
	}

	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	nome = strings.TrimSpace(nome)
	key := fmt.Sprintf("pedidos/%s/%s", id.String(), nome)
	res, err := s.uploader.Upload(ctx, storage.UploadInput{Key: key, Body: conteudo, ContentType: contentType})
	if err != nil {
		return nil, &apperr.UploadError{Chave: key, Err: err}
	}

	docs := make(map[string]*string, len(atual.Documentos)+1)
	for k, v := range atual.Documentos {
		docs[k] = v
	}
	docs[nome] = &res.URL

	return s.repo.UpdateDocumentos(ctx, id, docs)
}
