package anoletivo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à tabela de anos letivos.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persiste um novo ano letivo.
func (r *Repository) Insert(ctx context.Context, input CreateInput) (*AnoLetivo, error) {
	const query = `
        INSERT INTO anos_letivos (nome, inicio, fim)
        VALUES ($1, $2, $3)
        RETURNING id, nome, inicio, fim
    `

	var ano AnoLetivo
	err := r.pool.QueryRow(ctx, query, input.Nome, input.Inicio, input.Fim).
		Scan(&ano.ID, &ano.Nome, &ano.Inicio, &ano.Fim)
	if err != nil {
		return nil, err
	}
	return &ano, nil
}

// GetByID busca um ano letivo específico.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*AnoLetivo, error) {
	const query = `SELECT id, nome, inicio, fim FROM anos_letivos WHERE id = $1`

	var ano AnoLetivo
	err := r.pool.QueryRow(ctx, query, id).Scan(&ano.ID, &ano.Nome, &ano.Inicio, &ano.Fim)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &ano, nil
}

// List devolve os anos letivos do mais recente para o mais antigo.
func (r *Repository) List(ctx context.Context) ([]AnoLetivo, error) {
	const query = `SELECT id, nome, inicio, fim FROM anos_letivos ORDER BY inicio DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anos []AnoLetivo
	for rows.Next() {
		var ano AnoLetivo
		if err := rows.Scan(&ano.ID, &ano.Nome, &ano.Inicio, &ano.Fim); err != nil {
			return nil, err
		}
		anos = append(anos, ano)
	}

	return anos, rows.Err()
}
