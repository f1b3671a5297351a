package reset

import (
	c "ambrotos/internal/core/domain/common"
	"context"
	"time"
)

type ID int64

// Token is a single-use, time-limited reset credential: 32 random bytes,
// hex-encoded to 64 characters.
type Token string

const TokenLength = 64

// PasswordResetRequest is one outstanding reset. Several requests may
// exist for the same email at the same time; each is independent.
type PasswordResetRequest struct {
	ID        ID
	Email     c.Email
	Token     Token
	ExpiresAt time.Time
}

type CreateInput struct {
	Email     c.Email
	Token     Token
	ExpiresAt time.Time
}

type Repository interface {
	// EnsureSchema creates the underlying table and its unique token
	// index if they are absent. Safe to call any number of times.
	EnsureSchema(ctx context.Context) error
	Create(ctx context.Context, input CreateInput) (PasswordResetRequest, error)
	// GetActiveByToken returns the request whose token matches and whose
	// expiry is strictly in the future, otherwise ErrRequestDoesNotExist.
	GetActiveByToken(ctx context.Context, token Token) (PasswordResetRequest, error)
	// DeleteByToken removes all rows matching the token and reports how
	// many were removed. Deleting an absent token is not an error.
	DeleteByToken(ctx context.Context, token Token) (int64, error)
}

type TokenGenerator interface {
	GenerateToken() Token
}

// LinkSender delivers the reset link for an outstanding request to its
// email address.
type LinkSender interface {
	SendResetLink(ctx context.Context, request PasswordResetRequest) error
}
