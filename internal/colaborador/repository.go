package colaborador

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à coleção de colaboradores.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `uid, nome, email, cargo, permissao, ativo, criado_em`

// Insert persiste um novo colaborador já associado à sua conta.
func (r *Repository) Insert(ctx context.Context, c *Colaborador) (*Colaborador, error) {
	w := c.ToWire()
	const query = `
        INSERT INTO colaboradores (uid, nome, email, cargo, permissao, ativo, criado_em)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query,
		w.UID, w.Nome, w.Email, w.Cargo, w.Permissao, w.Ativo, w.CriadoEm)
	return scanColaborador(row)
}

// GetByUID busca um colaborador pela conta associada.
func (r *Repository) GetByUID(ctx context.Context, uid uuid.UUID) (*Colaborador, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM colaboradores WHERE uid = $1`, uid)
	return scanColaborador(row)
}

// List devolve os colaboradores em ordem alfabética. Registros ilegíveis são
// descartados individualmente com log.
func (r *Repository) List(ctx context.Context) ([]Colaborador, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM colaboradores ORDER BY nome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colaboradores []Colaborador
	for rows.Next() {
		c, err := scanColaborador(rows)
		if err != nil {
			log.Warn().Err(err).Msg("colaborador: registro descartado na listagem")
			continue
		}
		colaboradores = append(colaboradores, *c)
	}
	return colaboradores, rows.Err()
}

// SetAtivo grava o estado de atividade.
func (r *Repository) SetAtivo(ctx context.Context, uid uuid.UUID, ativo bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE colaboradores SET ativo = $2 WHERE uid = $1`, uid, ativo)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanColaborador(row pgx.Row) (*Colaborador, error) {
	var w Wire
	if err := row.Scan(&w.UID, &w.Nome, &w.Email, &w.Cargo, &w.Permissao, &w.Ativo, &w.CriadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return FromWire(w)
}
