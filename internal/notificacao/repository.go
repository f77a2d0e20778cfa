package notificacao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à fila de notificações.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, destinatario, titulo, mensagem, tipo, token, estado, criado_em, enviado_em`

// Insert enfileira uma nova notificação.
func (r *Repository) Insert(ctx context.Context, n *Notificacao) (*Notificacao, error) {
	w := n.ToWire()
	const query = `
        INSERT INTO notificacoes (destinatario, titulo, mensagem, tipo, token, estado, criado_em)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query,
		w.Destinatario, w.Titulo, w.Mensagem, w.Tipo, w.Token, w.Estado, w.CriadoEm)
	return scanNotificacao(row)
}

// List devolve as notificações, mais recentes primeiro. Registros ilegíveis são
// descartados individualmente com log.
func (r *Repository) List(ctx context.Context, limit int) ([]Notificacao, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+colunas+` FROM notificacoes ORDER BY criado_em DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collect(rows)
}

// ListPendentes devolve o próximo lote a despachar, mais antigas primeiro.
func (r *Repository) ListPendentes(ctx context.Context, limit int) ([]Notificacao, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+colunas+` FROM notificacoes WHERE estado = $1 ORDER BY criado_em LIMIT $2`,
		string(EstadoPendente), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collect(rows)
}

// UpdateEstado grava o desfecho do despacho. enviadoEm pode ser nil quando o
// envio não aconteceu.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado, enviadoEm *time.Time) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notificacoes SET estado = $2, enviado_em = $3 WHERE id = $1`,
		id, string(estado), enviadoEm)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func collect(rows pgx.Rows) ([]Notificacao, error) {
	var notificacoes []Notificacao
	for rows.Next() {
		n, err := scanNotificacao(rows)
		if err != nil {
			log.Warn().Err(err).Msg("notificacao: registro descartado na listagem")
			continue
		}
		notificacoes = append(notificacoes, *n)
	}
	return notificacoes, rows.Err()
}

func scanNotificacao(row pgx.Row) (*Notificacao, error) {
	var w Wire
	if err := row.Scan(&w.ID, &w.Destinatario, &w.Titulo, &w.Mensagem, &w.Tipo, &w.Token, &w.Estado, &w.CriadoEm, &w.EnviadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return FromWire(w)
}
