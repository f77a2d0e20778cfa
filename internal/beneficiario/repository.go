package beneficiario

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso à coleção de beneficiários.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, nome, email, data_nascimento, ano_letivo_id, telefone, cc, estado, criado_em`

// Insert persiste um novo beneficiário.
func (r *Repository) Insert(ctx context.Context, b *Beneficiario) (*Beneficiario, error) {
	w := b.ToWire()
	const query = `
        INSERT INTO beneficiarios (id, nome, email, data_nascimento, ano_letivo_id, telefone, cc, estado, criado_em)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query,
		w.ID, strings.TrimSpace(w.Nome), strings.ToLower(strings.TrimSpace(w.Email)),
		w.DataNascimento, w.AnoLetivo, strings.TrimSpace(w.Telefone), strings.TrimSpace(w.CC),
		w.Estado, w.CriadoEm,
	)
	return scanBeneficiario(row)
}

// GetByID busca um beneficiário específico.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Beneficiario, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM beneficiarios WHERE id = $1`, id.String())
	return scanBeneficiario(row)
}

// Exists verifica apenas a existência do registro, sem validar conteúdo.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM beneficiarios WHERE id = $1)`, id.String()).Scan(&exists)
	return exists, err
}

// List devolve todos os beneficiários. Registros com mapeamento inválido são
// descartados individualmente (com log) em vez de derrubar a listagem inteira.
func (r *Repository) List(ctx context.Context) ([]Beneficiario, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+colunas+` FROM beneficiarios`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Beneficiario
	for rows.Next() {
		b, err := scanBeneficiario(rows)
		if err != nil {
			log.Warn().Err(err).Msg("beneficiario: registro descartado na listagem")
			continue
		}
		result = append(result, *b)
	}

	return result, rows.Err()
}

// UpdateEstado aplica a transição de estado decidida pela equipe.
func (r *Repository) UpdateEstado(ctx context.Context, id uuid.UUID, estado Estado) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE beneficiarios SET estado = $2 WHERE id = $1`, id.String(), string(estado))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Update altera dados cadastrais campo a campo.
func (r *Repository) Update(ctx context.Context, input UpdateInput) (*Beneficiario, error) {
	setParts := []string{}
	args := []any{}
	idx := 1

	appendSet := func(column string, value any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if input.Nome != nil {
		appendSet("nome", strings.TrimSpace(*input.Nome))
	}
	if input.Email != nil {
		appendSet("email", strings.ToLower(strings.TrimSpace(*input.Email)))
	}
	if input.DataNascimento != nil {
		appendSet("data_nascimento", *input.DataNascimento)
	}
	if input.AnoLetivoID != nil {
		appendSet("ano_letivo_id", input.AnoLetivoID.String())
	}
	if input.Telefone != nil {
		appendSet("telefone", strings.TrimSpace(*input.Telefone))
	}
	if input.CC != nil {
		appendSet("cc", strings.TrimSpace(*input.CC))
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, input.ID)
	}

	args = append(args, input.ID.String())
	query := fmt.Sprintf(`UPDATE beneficiarios SET %s WHERE id = $%d RETURNING `+colunas,
		strings.Join(setParts, ", "), idx)

	row := r.pool.QueryRow(ctx, query, args...)
	return scanBeneficiario(row)
}

func scanBeneficiario(row pgx.Row) (*Beneficiario, error) {
	var w Wire
	if err := row.Scan(&w.ID, &w.Nome, &w.Email, &w.DataNascimento, &w.AnoLetivo, &w.Telefone, &w.CC, &w.Estado, &w.CriadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return FromWire(w)
}
