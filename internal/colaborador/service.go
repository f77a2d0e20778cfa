package colaborador

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/realtime"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, c *Colaborador) (*Colaborador, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*Colaborador, error)
	List(ctx context.Context) ([]Colaborador, error)
	SetAtivo(ctx context.Context, uid uuid.UUID, ativo bool) error
}

type contas interface {
	Criar(ctx context.Context, email, senha string) (uuid.UUID, error)
}

type auditoria interface {
	Registar(ctx context.Context, acao, detalhe, utilizador string) error
}

// Service reúne regras de negócio da equipe da loja.
type Service struct {
	repo   repository
	contas contas
	audit  auditoria
	redis  *redis.Client
}

// NewService cria uma nova instância do serviço. redisClient pode ser nil em
// testes; nesse caso o fluxo reativo fica indisponível.
func NewService(repo repository, contas contas, audit auditoria, redisClient *redis.Client) *Service {
	return &Service{repo: repo, contas: contas, audit: audit, redis: redisClient}
}

// Add cria a conta de autenticação e o registro de colaborador em sequência.
// Se a conta não puder ser criada, nada mais acontece. Falha de auditoria não
// desfaz as escritas e é reportada como falha parcial.
func (s *Service) Add(ctx context.Context, input AddInput, ator string) (*Colaborador, error) {
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}
	if err := util.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	uid, err := s.contas.Criar(ctx, strings.TrimSpace(input.Email), input.Password)
	if err != nil {
		return nil, apperr.Workflow("conta", err)
	}

	created, err := s.repo.Insert(ctx, &Colaborador{
		UID:       uid,
		Nome:      strings.TrimSpace(input.Nome),
		Email:     strings.TrimSpace(input.Email),
		Cargo:     strings.TrimSpace(input.Cargo),
		Permissao: Permissoes.FromWire(strings.ToUpper(strings.TrimSpace(input.Permissao))),
		Ativo:     true,
		CriadoEm:  util.Now(),
	})
	if err != nil {
		return nil, apperr.Workflow("colaborador", err)
	}

	s.publish(ctx)

	if err := s.audit.Registar(ctx, "Criou colaborador", created.Nome, ator); err != nil {
		log.Warn().Err(err).Str("colaborador", created.UID.String()).Msg("colaborador: auditoria falhou")
		return created, apperr.Workflow("auditoria", err)
	}
	return created, nil
}

// GetByUID busca um colaborador pela conta associada.
func (s *Service) GetByUID(ctx context.Context, uid uuid.UUID) (*Colaborador, error) {
	return s.repo.GetByUID(ctx, uid)
}

// List devolve todos os colaboradores.
func (s *Service) List(ctx context.Context) ([]Colaborador, error) {
	return s.repo.List(ctx)
}

// Toggle inverte o estado de atividade do colaborador e registra a ação.
func (s *Service) Toggle(ctx context.Context, uid uuid.UUID, ator string) (*Colaborador, error) {
	atual, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetAtivo(ctx, uid, !atual.Ativo); err != nil {
		return nil, err
	}

	s.publish(ctx)

	acao := "Desativou colaborador"
	if !atual.Ativo {
		acao = "Ativou colaborador"
	}
	if err := s.audit.Registar(ctx, acao, atual.Nome, ator); err != nil {
		log.Warn().Err(err).Str("colaborador", uid.String()).Msg("colaborador: auditoria falhou")
	}

	return s.repo.GetByUID(ctx, uid)
}

// Subscribe abre um fluxo reativo de snapshots da equipe.
func (s *Service) Subscribe(ctx context.Context) (<-chan []Colaborador, error) {
	if s.redis == nil {
		return nil, errors.New("colaborador: fluxo reativo indisponível")
	}
	return realtime.Snapshots(ctx, s.redis, Canal, s.repo.List)
}

func (s *Service) publish(ctx context.Context) {
	if s.redis != nil {
		realtime.Publish(ctx, s.redis, Canal)
	}
}
