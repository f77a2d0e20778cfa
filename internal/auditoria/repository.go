package auditoria

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provê acesso à tabela append-only de logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert acrescenta uma entrada. Não há update nem delete nesta tabela.
func (r *Repository) Insert(ctx context.Context, input RegistarInput) (*AppLog, error) {
	const query = `
        INSERT INTO logs (acao, detalhe, utilizador, ts)
        VALUES ($1, $2, $3, $4)
        RETURNING id, acao, detalhe, utilizador, ts
    `

	var entry AppLog
	err := r.pool.QueryRow(ctx, query, input.Acao, input.Detalhe, input.Utilizador, input.Timestamp).
		Scan(&entry.ID, &entry.Acao, &entry.Detalhe, &entry.Utilizador, &entry.Timestamp)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// List devolve as entradas mais recentes primeiro.
func (r *Repository) List(ctx context.Context, limit int) ([]AppLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	const query = `
        SELECT id, acao, detalhe, utilizador, ts
        FROM logs
        ORDER BY ts DESC
        LIMIT $1
    `

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []AppLog
	for rows.Next() {
		var entry AppLog
		if err := rows.Scan(&entry.ID, &entry.Acao, &entry.Detalhe, &entry.Utilizador, &entry.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
