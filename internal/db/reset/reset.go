package reset

import (
	c "ambrotos/internal/core/domain/common"
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const TokenConstraintName = "password_resets_token_idx"

// The table is created lazily rather than by migration: the reset flow
// owns it and must work against a fresh database. Both statements are
// idempotent.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS password_resets (
    id BIGSERIAL PRIMARY KEY,
    email TEXT NOT NULL,
    token TEXT NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL
)`

const createTokenIndexSQL = `
CREATE UNIQUE INDEX IF NOT EXISTS password_resets_token_idx ON password_resets (token)`

type PgxResetRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxResetRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("dbtx"))
	}
	return &PgxResetRepository{db: dbtx}
}

func (r *PgxResetRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTableSQL); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, createTokenIndexSQL)
	return err
}

func (r *PgxResetRepository) Create(
	ctx context.Context,
	input reset.CreateInput,
) (req reset.PasswordResetRequest, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_resets (email, token, expires_at) VALUES ($1, $2, $3) RETURNING id`,
		string(input.Email),
		string(input.Token),
		input.ExpiresAt,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == db.UniqueConstraintErrCode &&
			pgErr.ConstraintName == TokenConstraintName {
			return req, reset.ErrTokenAlreadyExists
		}
		return req, err
	}
	return reset.PasswordResetRequest{
		ID:        reset.ID(id),
		Email:     input.Email,
		Token:     input.Token,
		ExpiresAt: input.ExpiresAt,
	}, nil
}

func (r *PgxResetRepository) GetActiveByToken(
	ctx context.Context,
	token reset.Token,
) (req reset.PasswordResetRequest, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, email, token, expires_at FROM password_resets WHERE token = $1 AND expires_at > now()`,
		string(token),
	)
	var (
		id        int64
		email     string
		dbToken   string
		expiresAt time.Time
	)
	err = row.Scan(&id, &email, &dbToken, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return req, reset.ErrRequestDoesNotExist
	}
	if err != nil {
		return req, err
	}
	return reset.PasswordResetRequest{
		ID:        reset.ID(id),
		Email:     c.Email(email),
		Token:     reset.Token(dbToken),
		ExpiresAt: expiresAt,
	}, nil
}

func (r *PgxResetRepository) DeleteByToken(ctx context.Context, token reset.Token) (int64, error) {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM password_resets WHERE token = $1`,
		string(token),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
