package beneficiario

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, b *Beneficiario) (*Beneficiario, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Beneficiario, error)
	List(ctx context.Context) ([]Beneficiario, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error
	Update(ctx context.Context, input UpdateInput) (*Beneficiario, error)
}

// Service reúne regras de negócio de beneficiários.
type Service struct {
	repo repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Add registra um beneficiário já com identidade emitida. Toda validação
// acontece antes de qualquer chamada ao repositório: uma entrada rejeitada não
// produz efeito colateral algum.
func (s *Service) Add(ctx context.Context, input AddInput) (*Beneficiario, error) {
	if err := util.RequireString(input.ID, "id"); err != nil {
		return nil, err
	}
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(strings.TrimSpace(input.ID))
	if err != nil {
		return nil, apperr.Validation("id", "inválido")
	}

	// Novos registros entram sempre em análise, pendentes de aprovação da equipe.
	return s.repo.Insert(ctx, &Beneficiario{
		ID:             id,
		Nome:           strings.TrimSpace(input.Nome),
		Email:          strings.ToLower(strings.TrimSpace(input.Email)),
		DataNascimento: input.DataNascimento,
		AnoLetivoID:    input.AnoLetivoID,
		Telefone:       strings.TrimSpace(input.Telefone),
		CC:             strings.TrimSpace(input.CC),
		Estado:         EstadoAnalise,
		CriadoEm:       util.Now(),
	})
}

// GetByID busca um beneficiário.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Beneficiario, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve os beneficiários ordenados lexicograficamente pelo nome,
// sensível a maiúsculas, com ordenação estável.
func (s *Service) List(ctx context.Context) ([]Beneficiario, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Nome < result[j].Nome
	})
	return result, nil
}

// AtualizarEstado aplica a decisão da equipe (aprovação, desligamento, análise).
func (s *Service) AtualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*Beneficiario, error) {
	if !Estados.Contains(estado) {
		return nil, apperr.Validation("estado", "desconhecido")
	}
	if err := s.repo.UpdateEstado(ctx, id, Estado(estado)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Update altera dados cadastrais.
func (s *Service) Update(ctx context.Context, input UpdateInput) (*Beneficiario, error) {
	if input.Nome != nil {
		if err := util.RequireString(*input.Nome, "nome"); err != nil {
			return nil, err
		}
	}
	if input.Email != nil {
		if err := util.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	return s.repo.Update(ctx, input)
}
