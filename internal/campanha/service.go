package campanha

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, c *Campanha) (*Campanha, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Campanha, error)
	List(ctx context.Context) ([]Campanha, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error
}

type auditoria interface {
	Registar(ctx context.Context, acao, detalhe, utilizador string) error
}

// Service reúne regras de negócio de campanhas.
type Service struct {
	repo  repository
	audit auditoria
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, audit auditoria) *Service {
	return &Service{repo: repo, audit: audit}
}

// Add persiste a campanha e registra a ação em auditoria. Uma falha no registro
// de auditoria não desfaz a escrita primária, mas é reportada ao chamador como
// falha parcial.
func (s *Service) Add(ctx context.Context, input AddInput, ator string) (*Campanha, error) {
	if err := util.RequireString(input.Titulo, "titulo"); err != nil {
		return nil, err
	}
	if input.Fim.Before(input.Inicio) {
		return nil, apperr.Validation("fim", "anterior ao início")
	}

	estado := EstadoPlaneada
	if raw := strings.ToUpper(strings.TrimSpace(input.Estado)); raw != "" {
		if !Estados.Contains(raw) {
			return nil, apperr.Validation("estado", "desconhecido")
		}
		estado = Estado(raw)
	}

	created, err := s.repo.Insert(ctx, &Campanha{
		Titulo:              strings.TrimSpace(input.Titulo),
		Descricao:           strings.TrimSpace(input.Descricao),
		Inicio:              input.Inicio,
		Fim:                 input.Fim,
		Tipo:                Tipos.FromWire(strings.ToUpper(strings.TrimSpace(input.Tipo))),
		Estado:              estado,
		ImagemURL:           strings.TrimSpace(input.ImagemURL),
		ProdutosNecessarios: input.ProdutosNecessarios,
	})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Registar(ctx, "Criou campanha", created.Titulo, ator); err != nil {
		log.Warn().Err(err).Str("campanha", created.ID.String()).Msg("campanha: auditoria falhou")
		return created, apperr.Workflow("auditoria", err)
	}
	return created, nil
}

// GetByID busca uma campanha.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Campanha, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve todas as campanhas.
func (s *Service) List(ctx context.Context) ([]Campanha, error) {
	return s.repo.List(ctx)
}

// AtualizarEstado aplica uma transição do ciclo de vida. A progressão é
// estritamente para a frente: uma campanha encerrada não volta a ativa.
func (s *Service) AtualizarEstado(ctx context.Context, id uuid.UUID, novo string, ator string) (*Campanha, error) {
	raw := strings.ToUpper(strings.TrimSpace(novo))
	if !Estados.Contains(raw) {
		return nil, apperr.Validation("estado", "desconhecido")
	}

	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	destino := Estado(raw)
	if !PodeTransitar(atual.Estado, destino) {
		return nil, apperr.Validation("estado", "transição não permitida")
	}

	if err := s.repo.UpdateEstado(ctx, id, destino); err != nil {
		return nil, err
	}

	if err := s.audit.Registar(ctx, "Alterou estado de campanha", atual.Titulo+" → "+string(destino), ator); err != nil {
		log.Warn().Err(err).Str("campanha", id.String()).Msg("campanha: auditoria falhou")
	}

	return s.repo.GetByID(ctx, id)
}
