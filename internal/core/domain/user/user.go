package user

import (
	c "ambrotos/internal/core/domain/common"
	"context"
	"time"
)

type ID int64

type RawPassword string

type PasswordHash string

type Account struct {
	ID           ID
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type CreateAccountInput struct {
	Email        c.Email
	PasswordHash PasswordHash
	CreatedAt    time.Time
}

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// AccountRepository is the user-account credential store. The reset flow
// only ever writes through SetPasswordByEmail; account creation and
// lookup belong to the rest of the scheduling app.
type AccountRepository interface {
	Create(ctx context.Context, input CreateAccountInput) (Account, error)
	GetByEmail(ctx context.Context, email c.Email) (Account, error)
	SetPasswordByEmail(ctx context.Context, email c.Email, hash PasswordHash) error
}
