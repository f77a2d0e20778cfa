package conta

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lojasocial-ipb/api/internal/apperr"
)

// Repository provê acesso às contas de autenticação e aos refresh tokens.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository cria instância do repositório.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const colunas = `id, email, senha_hash, push_token, criado_em`

// Insert persiste uma nova conta.
func (r *Repository) Insert(ctx context.Context, email, senhaHash string, quando time.Time) (*Conta, error) {
	const query = `
        INSERT INTO contas (email, senha_hash, criado_em)
        VALUES ($1, $2, $3)
        RETURNING ` + colunas

	row := r.pool.QueryRow(ctx, query, email, senhaHash, quando)
	return scanConta(row)
}

// GetByEmail busca uma conta pelo email, em minúsculas.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Conta, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM contas WHERE lower(email) = lower($1)`, email)
	return scanConta(row)
}

// GetByID busca uma conta pelo identificador.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Conta, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+colunas+` FROM contas WHERE id = $1`, id)
	return scanConta(row)
}

// SetPushToken grava o token de dispositivo do utilizador.
func (r *Repository) SetPushToken(ctx context.Context, id uuid.UUID, token string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE contas SET push_token = $2 WHERE id = $1`, id, token)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// InsertRefresh registra a emissão de um refresh token.
func (r *Repository) InsertRefresh(ctx context.Context, contaID uuid.UUID, tokenHash string, expiraEm, quando time.Time) error {
	_, err := r.pool.Exec(ctx, `
        INSERT INTO refresh_tokens (conta_id, token_hash, expira_em, criado_em)
        VALUES ($1, $2, $3, $4)
    `, contaID, tokenHash, expiraEm, quando)
	return err
}

// GetRefresh busca um refresh token ainda não revogado pelo hash.
func (r *Repository) GetRefresh(ctx context.Context, tokenHash string) (*TokenRefresh, error) {
	row := r.pool.QueryRow(ctx, `
        SELECT id, conta_id, token_hash, expira_em, criado_em, revogado_em
        FROM refresh_tokens
        WHERE token_hash = $1 AND revogado_em IS NULL
    `, tokenHash)

	var t TokenRefresh
	if err := row.Scan(&t.ID, &t.ContaID, &t.TokenHash, &t.ExpiraEm, &t.CriadoEm, &t.RevogadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// RevokeRefresh marca o token como revogado.
func (r *Repository) RevokeRefresh(ctx context.Context, tokenHash string, quando time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revogado_em = $2 WHERE token_hash = $1 AND revogado_em IS NULL`,
		tokenHash, quando)
	return err
}

// RevokeAll revoga todos os tokens ativos de uma conta.
func (r *Repository) RevokeAll(ctx context.Context, contaID uuid.UUID, quando time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revogado_em = $2 WHERE conta_id = $1 AND revogado_em IS NULL`,
		contaID, quando)
	return err
}

func scanConta(row pgx.Row) (*Conta, error) {
	var c Conta
	var pushToken *string
	if err := row.Scan(&c.ID, &c.Email, &c.SenhaHash, &pushToken, &c.CriadoEm); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if pushToken != nil {
		c.PushToken = *pushToken
	}
	return &c, nil
}
