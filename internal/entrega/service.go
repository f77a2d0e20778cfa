package entrega

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	Insert(ctx context.Context, e *Entrega) (*Entrega, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Entrega, error)
	List(ctx context.Context) ([]Entrega, error)
	ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Entrega, error)
	ListAgendadas(ctx context.Context, limite time.Time) ([]Entrega, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error
	UpdateItens(ctx context.Context, id uuid.UUID, itens map[string]int) (*Entrega, error)
	MarcarEntregue(ctx context.Context, id uuid.UUID, itens map[string]int, quando time.Time) error
}

// Service reúne regras de negócio de entregas.
type Service struct {
	repo repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// Add agenda uma nova entrega. O beneficiário é obrigatório e a validação
// acontece antes de qualquer chamada ao repositório.
func (s *Service) Add(ctx context.Context, input AddInput) (*Entrega, error) {
	if err := util.RequireString(input.BeneficiarioID, "beneficiario_id"); err != nil {
		return nil, err
	}

	beneficiarioID, err := uuid.Parse(strings.TrimSpace(input.BeneficiarioID))
	if err != nil {
		return nil, apperr.Validation("beneficiario_id", "inválido")
	}

	if err := validarItens(input.Itens); err != nil {
		return nil, err
	}

	itens := input.Itens
	if itens == nil {
		itens = map[string]int{}
	}

	return s.repo.Insert(ctx, &Entrega{
		BeneficiarioID: beneficiarioID,
		DataPrevista:   input.DataPrevista,
		Estado:         EstadoAgendada,
		Itens:          itens,
		Observacoes:    strings.TrimSpace(input.Observacoes),
		CriadoPor:      strings.TrimSpace(input.CriadoPor),
	})
}

// GetByID busca uma entrega.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Entrega, error) {
	return s.repo.GetByID(ctx, id)
}

// List devolve todas as entregas.
func (s *Service) List(ctx context.Context) ([]Entrega, error) {
	return s.repo.List(ctx)
}

// ListPorBeneficiario devolve as entregas de um beneficiário.
func (s *Service) ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Entrega, error) {
	return s.repo.ListPorBeneficiario(ctx, beneficiarioID)
}

// Proximas devolve as entregas agendadas até daqui a `dias` dias, inclusive.
func (s *Service) Proximas(ctx context.Context, dias int) ([]Entrega, error) {
	if dias < 0 {
		return nil, apperr.Validation("dias", "não pode ser negativo")
	}
	limite := util.Now().Add(time.Duration(dias) * 24 * time.Hour)
	return s.repo.ListAgendadas(ctx, limite)
}

// UpdateItens substitui o mapa de itens. Toda quantidade deve ser positiva.
func (s *Service) UpdateItens(ctx context.Context, id uuid.UUID, itens map[string]int) (*Entrega, error) {
	if len(itens) == 0 {
		return nil, apperr.Validation("itens", "obrigatórios")
	}
	if err := validarItens(itens); err != nil {
		return nil, err
	}
	return s.repo.UpdateItens(ctx, id, itens)
}

// AtualizarEstado aplica transições simples decididas pela equipe (cancelar,
// rejeitar, voltar para análise). A concretização passa por MarcarEntregue.
func (s *Service) AtualizarEstado(ctx context.Context, id uuid.UUID, novo string) (*Entrega, error) {
	raw := strings.ToUpper(strings.TrimSpace(novo))
	if !Estados.Contains(raw) {
		return nil, apperr.Validation("estado", "desconhecido")
	}
	if Estado(raw) == EstadoEntregue {
		return nil, apperr.Validation("estado", "use a operação de concretização")
	}
	if err := s.repo.UpdateEstado(ctx, id, Estado(raw)); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// MarcarEntregue concretiza a entrega: muda o estado para ENTREGUE e abate o
// stock correspondente na mesma transação. Stock insuficiente aborta a
// transição por completo.
func (s *Service) MarcarEntregue(ctx context.Context, id uuid.UUID) (*Entrega, error) {
	atual, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch atual.Estado {
	case EstadoAgendada, EstadoEmAnalise:
		// elegível
	default:
		return nil, apperr.Validation("estado", "entrega não está pendente")
	}

	if err := s.repo.MarcarEntregue(ctx, id, atual.Itens, util.Now()); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func validarItens(itens map[string]int) error {
	for produto, quantidade := range itens {
		if strings.TrimSpace(produto) == "" {
			return apperr.Validation("itens", "produto sem identificador")
		}
		if quantidade <= 0 {
			return apperr.Validation("itens", "quantidade deve ser positiva")
		}
	}
	return nil
}
