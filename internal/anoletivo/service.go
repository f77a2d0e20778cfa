package anoletivo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/realtime"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, input CreateInput) (*AnoLetivo, error)
	GetByID(ctx context.Context, id uuid.UUID) (*AnoLetivo, error)
	List(ctx context.Context) ([]AnoLetivo, error)
}

// Service reúne regras de negócio dos anos letivos.
type Service struct {
	repo  repository
	redis *redis.Client
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient}
}

// Create persiste um novo ano letivo.
func (s *Service) Create(ctx context.Context, input CreateInput) (*AnoLetivo, error) {
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}
	if input.Fim.Before(input.Inicio) {
		return nil, apperr.Validation("fim", "anterior ao início")
	}

	ano, err := s.repo.Insert(ctx, input)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		realtime.Publish(ctx, s.redis, Canal)
	}
	return ano, nil
}

// GetByID busca um ano letivo.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*AnoLetivo, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve todos os anos letivos.
func (s *Service) List(ctx context.Context) ([]AnoLetivo, error) {
	return s.repo.List(ctx)
}

// Subscribe abre um fluxo reativo de snapshots da coleção.
func (s *Service) Subscribe(ctx context.Context) (<-chan []AnoLetivo, error) {
	if s.redis == nil {
		return nil, errors.New("anoletivo: fluxo reativo indisponível")
	}
	return realtime.Snapshots(ctx, s.redis, Canal, s.repo.List)
}
