package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// ErrStockInsuficiente indica que os lotes disponíveis não cobrem a retirada.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// Repository provê acesso ao catálogo e aos lotes de stock.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertProduto persiste uma definição de catálogo.
func (r *Repository) InsertProduto(ctx context.Context, p *Produto) (*Produto, error) {
	const query = `
        INSERT INTO produtos (nome, tipo, foto_url, observacoes)
        VALUES ($1, $2, $3, $4)
        RETURNING id, nome, tipo, foto_url, observacoes
    `
	row := r.pool.QueryRow(ctx, query, p.Nome, string(p.Tipo), p.FotoURL, p.Observacoes)
	return scanProduto(row)
}

// GetProduto busca uma definição de catálogo.
func (r *Repository) GetProduto(ctx context.Context, id uuid.UUID) (*Produto, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, nome, tipo, foto_url, observacoes FROM produtos WHERE id = $1`, id)
	return scanProduto(row)
}

// ListProdutos devolve o catálogo em ordem alfabética.
func (r *Repository) ListProdutos(ctx context.Context) ([]Produto, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, nome, tipo, foto_url, observacoes FROM produtos ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var produtos []Produto
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, err
		}
		produtos = append(produtos, *p)
	}
	return produtos, rows.Err()
}

// InsertItem persiste um novo lote.
func (r *Repository) InsertItem(ctx context.Context, item *Item) (*Item, error) {
	const query = `
        INSERT INTO stock_itens (produto_id, campanha_id, quantidade, data_entrada, data_validade, observacoes)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, produto_id, campanha_id, quantidade, data_entrada, data_validade, observacoes
    `
	row := r.pool.QueryRow(ctx, query,
		item.ProdutoID, item.CampanhaID, item.Quantidade, item.DataEntrada, item.DataValidade, item.Observacoes)
	return scanItem(row)
}

// GetItem busca um lote.
func (r *Repository) GetItem(ctx context.Context, id uuid.UUID) (*Item, error) {
	row := r.pool.QueryRow(ctx, itemSelect+` WHERE id = $1`, id)
	return scanItem(row)
}

// ListItens devolve os lotes, mais próximos de expirar primeiro.
func (r *Repository) ListItens(ctx context.Context) ([]Item, error) {
	return r.queryItens(ctx, itemSelect+` ORDER BY data_validade`)
}

// ListExpirando devolve os lotes com validade até o limite, inclusive.
func (r *Repository) ListExpirando(ctx context.Context, limite time.Time) ([]Item, error) {
	return r.queryItens(ctx, itemSelect+` WHERE data_validade <= $1 ORDER BY data_validade`, limite)
}

// ListPorProduto devolve os lotes de um produto, validade ascendente.
func (r *Repository) ListPorProduto(ctx context.Context, produtoID uuid.UUID) ([]Item, error) {
	return r.queryItens(ctx, itemSelect+` WHERE produto_id = $1 ORDER BY data_validade`, produtoID)
}

// UpdateQuantidade grava a quantidade já validada pelo serviço.
func (r *Repository) UpdateQuantidade(ctx context.Context, id uuid.UUID, quantidade int) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE stock_itens SET quantidade = $2 WHERE id = $1`, id, quantidade)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

const itemSelect = `SELECT id, produto_id, campanha_id, quantidade, data_entrada, data_validade, observacoes FROM stock_itens`

func (r *Repository) queryItens(ctx context.Context, query string, args ...any) ([]Item, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var itens []Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		itens = append(itens, *item)
	}
	return itens, rows.Err()
}

func scanProduto(row pgx.Row) (*Produto, error) {
	var (
		p    Produto
		tipo string
	)
	if err := row.Scan(&p.ID, &p.Nome, &tipo, &p.FotoURL, &p.Observacoes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	p.Tipo = TiposProduto.FromWire(tipo)
	return &p, nil
}

func scanItem(row pgx.Row) (*Item, error) {
	var item Item
	if err := row.Scan(&item.ID, &item.ProdutoID, &item.CampanhaID, &item.Quantidade, &item.DataEntrada, &item.DataValidade, &item.Observacoes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}
