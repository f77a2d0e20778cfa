package notificacao

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lojasocial-ipb/api/internal/realtime"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, n *Notificacao) (*Notificacao, error)
	List(ctx context.Context, limit int) ([]Notificacao, error)
	ListPendentes(ctx context.Context, limit int) ([]Notificacao, error)
}

// Service enfileira notificações; o envio é feito pelo despachante em segundo
// plano.
type Service struct {
	repo  repository
	redis *redis.Client
}

// NewService cria uma nova instância do serviço. redisClient pode ser nil em
// testes.
func NewService(repo repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient}
}

// Enfileirar coloca um email na fila de envio. O destinatário é obrigatório.
func (s *Service) Enfileirar(ctx context.Context, destinatario, titulo, mensagem string) error {
	if err := util.ValidateEmail(destinatario); err != nil {
		return err
	}

	_, err := s.repo.Insert(ctx, &Notificacao{
		Destinatario: strings.TrimSpace(destinatario),
		Titulo:       strings.TrimSpace(titulo),
		Mensagem:     mensagem,
		Tipo:         TipoEmail,
		Estado:       EstadoPendente,
		CriadoEm:     util.Now(),
	})
	if err != nil {
		return err
	}

	if s.redis != nil {
		realtime.Publish(ctx, s.redis, Canal)
	}
	return nil
}

// EnfileirarPush coloca uma notificação push na fila. O token é resolvido pelo
// despachante na hora do envio.
func (s *Service) EnfileirarPush(ctx context.Context, destinatario, titulo, mensagem string) error {
	if err := util.ValidateEmail(destinatario); err != nil {
		return err
	}

	_, err := s.repo.Insert(ctx, &Notificacao{
		Destinatario: strings.TrimSpace(destinatario),
		Titulo:       strings.TrimSpace(titulo),
		Mensagem:     mensagem,
		Tipo:         TipoPush,
		Estado:       EstadoPendente,
		CriadoEm:     util.Now(),
	})
	if err != nil {
		return err
	}

	if s.redis != nil {
		realtime.Publish(ctx, s.redis, Canal)
	}
	return nil
}

// List devolve as notificações mais recentes primeiro.
func (s *Service) List(ctx context.Context, limit int) ([]Notificacao, error) {
	return s.repo.List(ctx, limit)
}

// Subscribe abre um fluxo reativo de snapshots da fila.
func (s *Service) Subscribe(ctx context.Context, limit int) (<-chan []Notificacao, error) {
	if s.redis == nil {
		return nil, errors.New("notificacao: fluxo reativo indisponível")
	}
	return realtime.Snapshots(ctx, s.redis, Canal, func(ctx context.Context) ([]Notificacao, error) {
		return s.repo.List(ctx, limit)
	})
}
