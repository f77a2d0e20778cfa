package pedido

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à coleção de pedidos.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, beneficiario_id, ano_letivo_id, data_submissao, estado, tipo, documentos, observacoes`

// Insert persiste um novo pedido.
func (r *Repository) Insert(ctx context.Context, p *Pedido) (*Pedido, error) {
	w := p.ToWire()
	const query = `
        INSERT INTO pedidos (beneficiario_id, ano_letivo_id, data_submissao, estado, tipo, documentos, observacoes)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query,
		w.Beneficiario, w.AnoLetivo, w.DataSubmissao, w.Estado, w.Tipo, w.Documentos, w.Observacoes)
	return scanPedido(row)
}

// GetByID busca um pedido específico.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Pedido, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM pedidos WHERE id = $1`, id)
	return scanPedido(row)
}

// List devolve os pedidos, mais recentes primeiro. Registros ilegíveis são
// descartados individualmente com log.
func (r *Repository) List(ctx context.Context) ([]Pedido, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM pedidos ORDER BY data_submissao DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pedidos []Pedido
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			log.Warn().Err(err).Msg("pedido: registro descartado na listagem")
			continue
		}
		pedidos = append(pedidos, *p)
	}
	return pedidos, rows.Err()
}

// ListPorBeneficiario devolve os pedidos de um beneficiário.
func (r *Repository) ListPorBeneficiario(ctx context.Context, beneficiarioID uuid.UUID) ([]Pedido, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+colunas+` FROM pedidos WHERE beneficiario_id = $1 ORDER BY data_submissao DESC`,
		beneficiarioID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pedidos []Pedido
	for rows.Next() {
		p, err := scanPedido(rows)
		if err != nil {
			log.Warn().Err(err).Msg("pedido: registro descartado na listagem")
			continue
		}
		pedidos = append(pedidos, *p)
	}
	return pedidos, rows.Err()
}

// ListComDetalhes junta o nome do beneficiário a cada pedido.
func (r *Repository) ListComDetalhes(ctx context.Context) ([]Detalhe, error) {
	const query = `
        SELECT p.id, p.beneficiario_id, p.ano_letivo_id, p.data_submissao, p.estado, p.tipo, p.documentos, p.observacoes, b.nome
        FROM pedidos p
        JOIN beneficiarios b ON b.id = p.beneficiario_id
        ORDER BY p.data_submissao DESC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var detalhes []Detalhe
	for rows.Next() {
		var (
			w    Wire
			nome string
		)
		if err := rows.Scan(&w.ID, &w.Beneficiario, &w.AnoLetivo, &w.DataSubmissao, &w.Estado, &w.Tipo, &w.Documentos, &w.Observacoes, &nome); err != nil {
			log.Warn().Err(err).Msg("pedido: registro descartado na listagem detalhada")
			continue
		}
		p, err := FromWire(w)
		if err != nil {
			log.Warn().Err(err).Msg("pedido: registro descartado na listagem detalhada")
			continue
		}
		detalhes = append(detalhes, Detalhe{Pedido: *p, BeneficiarioNome: nome})
	}
	return detalhes, rows.Err()
}

// UpdateEstado grava a decisão da equipe.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE pedidos SET estado = $2 WHERE id = $1`, id, string(estado))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpdateDocumentos substitui o mapa de documentos, já mesclado pelo serviço.
func (r *Repository) UpdateDocumentos(ctx context.Context, id uuid.UUID, documentos map[string]*string) (*Pedido, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE pedidos SET documentos = $2 WHERE id = $1 RETURNING `+colunas, id, documentos)
	return scanPedido(row)
}

func scanPedido(row pgx.Row) (*Pedido, error) {
	var w Wire
	if err := row.Scan(&w.ID, &w.Beneficiario, &w.AnoLetivo, &w.DataSubmissao, &w.Estado, &w.Tipo, &w.Documentos, &w.Observacoes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return FromWire(w)
}
