package auditoria

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/realtime"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, input RegistarInput) (*AppLog, error)
	List(ctx context.Context, limit int) ([]AppLog, error)
}

// Service concentra as regras do registro de auditoria.
type Service struct {
	repo  repository
	redis *redis.Client
}

// NewService cria o serviço. redisClient pode ser nil em testes; nesse caso o
// fluxo reativo fica indisponível e as mutações não sinalizam assinantes.
func NewService(repo repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient}
}

// Registar acrescenta uma entrada de auditoria. O autor é sempre explícito:
// chamadas sem utilizador identificado registram o sentinela "Sistema".
func (s *Service) Registar(ctx context.Context, acao, detalhe, utilizador string) (*AppLog, error) {
	acao = strings.TrimSpace(acao)
	if acao == "" {
		return nil, apperr.Validation("acao", "obrigatória")
	}

	utilizador = strings.TrimSpace(utilizador)
	if utilizador == "" {
		utilizador = AtorSistema
	}

	entry, err := s.repo.Insert(ctx, RegistarInput{
		Acao:       acao,
		Detalhe:    strings.TrimSpace(detalhe),
		Utilizador: utilizador,
		Timestamp:  util.Now(),
	})
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		realtime.Publish(ctx, s.redis, Canal)
	}
	return entry, nil
}

// List devolve as entradas mais recentes primeiro.
func (s *Service) List(ctx context.Context, limit int) ([]AppLog, error) {
	return s.repo.List(ctx, limit)
}

// Subscribe abre um fluxo reativo de snapshots do log.
func (s *Service) Subscribe(ctx context.Context, limit int) (<-chan []AppLog, error) {
	if s.redis == nil {
		return nil, errors.New("auditoria: fluxo reativo indisponível")
	}
	return realtime.Snapshots(ctx, s.redis, Canal, func(ctx context.Context) ([]AppLog, error) {
		return s.repo.List(ctx, limit)
	})
}
