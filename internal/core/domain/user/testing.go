package user

import (
	c "ambrotos/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"io"
	"sync"
)

type FakeAccountRepository struct {
	Accounts    []Account
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{Accounts: make([]Account, 0, 10)}
}

func (r *FakeAccountRepository) Create(ctx context.Context, input CreateAccountInput) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not create account %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, existing := range r.Accounts {
		if existing.Email == input.Email {
			return a, ErrEmailAlreadyExists
		}
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	a = Account{
		ID:           maxID + 1,
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
	}
	r.Accounts = append(r.Accounts, a)
	return a, nil
}

func (r *FakeAccountRepository) GetByEmail(ctx context.Context, email c.Email) (a Account, err error) {
	if r.ReturnError {
		return a, fmt.Errorf("could not get account by email %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Accounts {
		if existing.Email == email {
			return existing, nil
		}
	}
	return a, ErrUserDoesNotExist
}

func (r *FakeAccountRepository) SetPasswordByEmail(ctx context.Context, email c.Email, hash PasswordHash) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for email %v", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix := range r.Accounts {
		if r.Accounts[ix].Email == email {
			r.Accounts[ix].PasswordHash = hash
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	hash := md5.New()
	io.WriteString(hash, string(password))
	return PasswordHash(fmt.Sprintf("%x", hash.Sum(nil))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}
