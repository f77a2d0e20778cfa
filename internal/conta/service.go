package conta

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/auth"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, email, senhaHash string, quando time.Time) (*Conta, error)
	GetByEmail(ctx context.Context, email string) (*Conta, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Conta, error)
	SetPushToken(ctx context.Context, id uuid.UUID, token string) error
}

// Service concentra a criação de contas de autenticação.
type Service struct {
	repo repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Criar valida as credenciais, garante unicidade do email e persiste a conta
// com a senha já em hash. Devolve o uid da conta criada.
func (s *Service) Criar(ctx context.Context, email, senha string) (uuid.UUID, error) {
	if err := util.ValidateEmail(email); err != nil {
		return uuid.Nil, err
	}
	if err := util.ValidatePassword(senha); err != nil {
		return uuid.Nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return uuid.Nil, apperr.Validation("email", "já registrado")
	}

	hash, err := auth.Hash(senha)
	if err != nil {
		return uuid.Nil, err
	}

	criada, err := s.repo.Insert(ctx, email, hash, util.Now())
	if err != nil {
		return uuid.Nil, err
	}
	return criada.ID, nil
}

// GetByEmail busca uma conta pelo email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Conta, error) {
	return s.repo.GetByEmail(ctx, email)
}

// RegistarDispositivo associa um token de push à conta.
func (s *Service) RegistarDispositivo(ctx context.Context, id uuid.UUID, token string) error {
	if err := util.RequireString(token, "token"); err != nil {
		return err
	}
	return s.repo.SetPushToken(ctx, id, strings.TrimSpace(token))
}

// TokenPorEmail devolve o token de push da conta, vazio quando o utilizador
// nunca registrou dispositivo.
func (s *Service) TokenPorEmail(ctx context.Context, email string) (string, error) {
	c, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return c.PushToken, nil
}
