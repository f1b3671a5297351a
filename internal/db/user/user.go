package user

import (
	c "ambrotos/internal/core/domain/common"
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/user"
	"ambrotos/internal/db"
	"context"
	"errors"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

const EmailConstraintName = "users_email_idx"

type PgxAccountRepository struct {
	db db.DBTX
}

func NewPgxRepository(dbtx db.DBTX) *PgxAccountRepository {
	if dbtx == nil {
		panic(e.NewNilArgumentError("dbtx"))
	}
	return &PgxAccountRepository{db: dbtx}
}

func (r *PgxAccountRepository) Create(
	ctx context.Context,
	input user.CreateAccountInput,
) (a user.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO users (email, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`,
		string(input.Email),
		string(input.PasswordHash),
		input.CreatedAt,
	)
	var id int64
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) &&
			pgErr.Code == db.UniqueConstraintErrCode &&
			pgErr.ConstraintName == EmailConstraintName {
			return a, user.ErrEmailAlreadyExists
		}
		return a, err
	}
	return user.Account{
		ID:           user.ID(id),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}, nil
}

func (r *PgxAccountRepository) GetByEmail(ctx context.Context, email c.Email) (a user.Account, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		string(email),
	)
	var (
		id           int64
		dbEmail      string
		passwordHash string
		createdAt    time.Time
	)
	err = row.Scan(&id, &dbEmail, &passwordHash, &createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return a, user.ErrUserDoesNotExist
	}
	if err != nil {
		return a, err
	}
	return user.Account{
		ID:           user.ID(id),
		Email:        c.Email(dbEmail),
		PasswordHash: user.PasswordHash(passwordHash),
		CreatedAt:    createdAt,
	}, nil
}

func (r *PgxAccountRepository) SetPasswordByEmail(
	ctx context.Context,
	email c.Email,
	hash user.PasswordHash,
) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET password_hash = $2 WHERE email = $1`,
		string(email),
		string(hash),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}
