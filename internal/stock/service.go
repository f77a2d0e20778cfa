package stock

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/util"
)

type repository interface {
	InsertProduto(ctx context.Context, p *Produto) (*Produto, error)
	GetProduto(ctx context.Context, id uuid.UUID) (*Produto, error)
	ListProdutos(ctx context.Context) ([]Produto, error)
	InsertItem(ctx context.Context, item *Item) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItens(ctx context.Context) ([]Item, error)
	ListExpirando(ctx context.Context, limite time.Time) ([]Item, error)
	UpdateQuantidade(ctx context.Context, id uuid.UUID, quantidade int) error
}

// Service reúne regras de negócio do inventário.
type Service struct {
	repo repository
}

// NewService cria uma nova instância do serviço.
func NewService(repo repository) *Service {
	return &Service{repo: repo}
}

// AddProduto registra uma definição de catálogo.
func (s *Service) AddProduto(ctx context.Context, input AddProdutoInput) (*Produto, error) {
	if err := util.RequireString(input.Nome, "nome"); err != nil {
		return nil, err
	}

	return s.repo.InsertProduto(ctx, &Produto{
		Nome:        strings.TrimSpace(input.Nome),
		Tipo:        TiposProduto.FromWire(strings.ToUpper(strings.TrimSpace(input.Tipo))),
		FotoURL:     strings.TrimSpace(input.FotoURL),
		Observacoes: strings.TrimSpace(input.Observacoes),
	})
}

// GetProduto busca uma definição de catálogo.
func (s *Service) GetProduto(ctx context.Context, id uuid.UUID) (*Produto, error) {
	return s.repo.GetProduto(ctx, id)
}

// ListProdutos devolve o catálogo.
func (s *Service) ListProdutos(ctx context.Context) ([]Produto, error) {
	return s.repo.ListProdutos(ctx)
}

// AddItem registra um novo lote. Quantidade não positiva é rejeitada antes de
// qualquer chamada ao repositório.
func (s *Service) AddItem(ctx context.Context, input AddItemInput) (*Item, error) {
	if err := util.RequireString(input.ProdutoID, "produto_id"); err != nil {
		return nil, err
	}
	if input.Quantidade <= 0 {
		return nil, apperr.Validation("quantidade", "deve ser positiva")
	}

	produtoID, err := uuid.Parse(strings.TrimSpace(input.ProdutoID))
	if err != nil {
		return nil, apperr.Validation("produto_id", "inválido")
	}

	return s.repo.InsertItem(ctx, &Item{
		ProdutoID:    produtoID,
		CampanhaID:   input.CampanhaID,
		Quantidade:   input.Quantidade,
		DataEntrada:  util.Now(),
		DataValidade: input.DataValidade,
		Observacoes:  strings.TrimSpace(input.Observacoes),
	})
}

// GetItem busca um lote.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

// ListItens devolve todos os lotes.
func (s *Service) ListItens(ctx context.Context) ([]Item, error) {
	return s.repo.ListItens(ctx)
}

// UpdateQuantidade grava a nova quantidade de um lote. Este é o invariante
// central do sistema: a quantidade nunca fica observável negativa, e a rejeição
// acontece antes de qualquer escrita.
func (s *Service) UpdateQuantidade(ctx context.Context, id uuid.UUID, quantidade int) (*Item, error) {
	if quantidade < 0 {
		return nil, apperr.Validation("quantidade", "não pode ser negativa")
	}
	if err := s.repo.UpdateQuantidade(ctx, id, quantidade); err != nil {
		return nil, err
	}
	return s.repo.GetItem(ctx, id)
}

// Expirando devolve os lotes cuja validade vence até daqui a `dias` dias,
// inclusive no limite.
func (s *Service) Expirando(ctx context.Context, dias int) ([]Item, error) {
	if dias < 0 {
		return nil, apperr.Validation("dias", "não pode ser negativo")
	}
	limite := util.Now().Add(time.Duration(dias) * 24 * time.Hour)
	return s.repo.ListExpirando(ctx, limite)
}
