package entrega

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
	"github.com/lojasocial-ipb/api/internal/db"
	"github.com/lojasocial-ipb/api/internal/stock"
)

// Repository provê acesso à coleção de entregas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, beneficiario_id, data, data_prevista, estado, itens, observacoes, criado_por`

// Insert persiste uma nova entrega.
func (r *Repository) Insert(ctx context.Context, e *Entrega) (*Entrega, error) {
	w := e.ToWire()
	const query = `
        INSERT INTO entregas (beneficiario_id, data, data_prevista, estado, itens, observacoes, criado_por)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query,
		w.Beneficiario, w.Data, w.DataPrevista, w.Estado, w.Itens, w.Observacoes, w.CriadoPor)
	return scanEntrega(row)
}

// GetByID busca uma entrega específica.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Entrega, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM entregas WHERE id = $1`, id)
	return scanEntrega(row)
}

// List devolve as entregas, mais próximas primeiro. Registros ilegíveis são
// descartados individualmente com log.
func (r *Repository) List(ctx context.Context) ([]Entrega, error) {
	return r.query(ctx, `SELECT `+colunas+` FROM entregas ORDER BY data_prevista`)
}

// ListPorBeneficiario devolve as entregas de um beneficiário.
func (r *Repository) ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Entrega, error) {
	return r.query(ctx, `SELECT `+colunas+` FROM entregas WHERE beneficiario_id = $1 ORDER BY data_prevista`, beneficiarioID.String())
}

// ListAgendadas devolve as entregas agendadas até o limite, inclusive.
func (r *Repository) ListAgendadas(ctx context.Context, limite time.Time) ([]Entrega, error) {
	return r.query(ctx,
		`SELECT `+colunas+` FROM entregas WHERE estado = $1 AND data_prevista <= $2 ORDER BY data_prevista`,
		string(EstadoAgendada), limite)
}

// UpdateEstado grava a transição já validada pelo serviço.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE entregas SET estado = $2 WHERE id = $1`, id, string(estado))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpdateItens substitui o mapa de itens, já validado pelo serviço.
func (r *Repository) UpdateItens(ctx context.Context, id uuid.UUID, itens map[string]int) (*Entrega, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE entregas SET itens = $2 WHERE id = $1 RETURNING `+colunas, id, itens)
	return scanEntrega(row)
}

// MarcarEntregue concretiza a entrega e abate o stock numa única transação:
// ou o estado muda e todos os lotes são decrementados, ou nada acontece.
// Lotes de validade mais próxima são consumidos primeiro.
func (r *Repository) MarcarEntregue(ctx context.Context, id uuid.UUID, itens map[string]int, quando time.Time) error {
	return db.WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx,
			`UPDATE entregas SET estado = $2, data = $3 WHERE id = $1 AND estado <> $2`,
			id, string(EstadoEntregue), quando)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return apperr.ErrNotFound
		}

		for produtoRaw, quantidade := range itens {
			produtoID, err := uuid.Parse(produtoRaw)
			if err != nil {
				return fmt.Errorf("item com produto inválido: %q", produtoRaw)
			}

			lotes, err := lotesDoProduto(ctx, tx, produtoID)
			if err != nil {
				return err
			}

			plano, err := stock.PlanearBaixa(lotes, quantidade)
			if err != nil {
				return err
			}

			for _, baixa := range plano {
				if _, err := tx.Exec(ctx,
					`UPDATE stock_itens SET quantidade = quantidade - $2 WHERE id = $1`,
					baixa.ItemID, baixa.Quantidade); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

func lotesDoProduto(ctx context.Context, tx pgx.Tx, produtoID uuid.UUID) ([]stock.Item, error) {
	rows, err := tx.Query(ctx, `
        SELECT id, produto_id, campanha_id, quantidade, data_entrada, data_validade, observacoes
        FROM stock_itens
        WHERE produto_id = $1 AND quantidade > 0
        ORDER BY data_validade
        FOR UPDATE
    `, produtoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lotes []stock.Item
	for rows.Next() {
		var item stock.Item
		if err := rows.Scan(&item.ID, &item.ProdutoID, &item.CampanhaID, &item.Quantidade, &item.DataEntrada, &item.DataValidade, &item.Observacoes); err != nil {
			return nil, err
		}
		lotes = append(lotes, item)
	}
	return lotes, rows.Err()
}

func (r *Repository) query(ctx context.Context, sql string, args ...any) ([]Entrega, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entregas []Entrega
	for rows.Next() {
		e, err := scanEntrega(rows)
		if err != nil {
			log.Warn().Err(err).Msg("entrega: registro descartado na listagem")
			continue
		}
		entregas = append(entregas, *e)
	}
	return entregas, rows.Err()
}

func scanEntrega(row pgx.Row) (*Entrega, error) {
	var w Wire
	if err := row.Scan(&w.ID, &w.Beneficiario, &w.Data, &w.DataPrevista, &w.Estado, &w.Itens, &w.Observacoes, &w.CriadoPor); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return FromWire(w)
}
