package campanha

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à coleção de campanhas.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, titulo, descricao, inicio, fim, tipo, estado, imagem_url, produtos_necessarios`

// Insert persiste uma nova campanha.
func (r *Repository) Insert(ctx context.Context, c *Campanha) (*Campanha, error) {
	const query = `
        INSERT INTO campanhas (titulo, descricao, inicio, fim, tipo, estado, imagem_url, produtos_necessarios)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING ` + colunas

	produtos := uuidStrings(c.ProdutosNecessarios)
	row := r.pool.QueryRow(ctx, query,
		c.Titulo, c.Descricao, c.Inicio, c.Fim, string(c.Tipo), string(c.Estado), c.ImagemURL, produtos)
	return scanCampanha(row)
}

// GetByID busca uma campanha específica.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Campanha, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM campanhas WHERE id = $1`, id)
	return scanCampanha(row)
}

// List devolve as campanhas, mais recentes primeiro.
func (r *Repository) List(ctx context.Context) ([]Campanha, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM campanhas ORDER BY inicio DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campanhas []Campanha
	for rows.Next() {
		c, err := scanCampanha(rows)
		if err != nil {
			return nil, err
		}
		campanhas = append(campanhas, *c)
	}
	return campanhas, rows.Err()
}

// UpdateEstado grava a transição já validada pelo serviço.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE campanhas SET estado = $2 WHERE id = $1`, id, string(estado))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanCampanha(row pgx.Row) (*Campanha, error) {
	var (
		c        Campanha
		tipo     string
		estado   string
		produtos []string
	)
	if err := row.Scan(&c.ID, &c.Titulo, &c.Descricao, &c.Inicio, &c.Fim, &tipo, &estado, &c.ImagemURL, &produtos); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	c.Tipo = Tipos.FromWire(tipo)
	c.Estado = Estados.FromWire(estado)

	for _, raw := range produtos {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		c.ProdutosNecessarios = append(c.ProdutosNecessarios, id)
	}
	return &c, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
