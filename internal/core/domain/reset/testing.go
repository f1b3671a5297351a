package reset

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type FakeRepository struct {
	Requests    []PasswordResetRequest
	ReturnError bool
	Now         func() time.Time
	lock        sync.Mutex
	nextID      ID
}

func NewFakeRepository(now func() time.Time) *FakeRepository {
	return &FakeRepository{
		Requests: make([]PasswordResetRequest, 0, 10),
		Now:      now,
	}
}

func (r *FakeRepository) EnsureSchema(ctx context.Context) error {
	if r.ReturnError {
		return fmt.Errorf("could not create password resets schema")
	}
	return nil
}

func (r *FakeRepository) Create(ctx context.Context, input CreateInput) (req PasswordResetRequest, err error) {
	if r.ReturnError {
		return req, fmt.Errorf("could not create password reset request %v", input)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Requests {
		if existing.Token == input.Token {
			return req, ErrTokenAlreadyExists
		}
	}
	r.nextID++
	req = PasswordResetRequest{
		ID:        r.nextID,
		Email:     input.Email,
		Token:     input.Token,
		ExpiresAt: input.ExpiresAt,
	}
	r.Requests = append(r.Requests, req)
	return req, nil
}

func (r *FakeRepository) GetActiveByToken(ctx context.Context, token Token) (req PasswordResetRequest, err error) {
	if r.ReturnError {
		return req, fmt.Errorf("could not get password reset request by token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, existing := range r.Requests {
		if existing.Token == token && existing.ExpiresAt.After(r.Now()) {
			return existing, nil
		}
	}
	return req, ErrRequestDoesNotExist
}

func (r *FakeRepository) DeleteByToken(ctx context.Context, token Token) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete password reset request by token")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	kept := r.Requests[:0]
	deleted := int64(0)
	for _, existing := range r.Requests {
		if existing.Token == token {
			deleted++
			continue
		}
		kept = append(kept, existing)
	}
	r.Requests = kept
	return deleted, nil
}

type FakeTokenGenerator struct {
	Token Token
}

func NewFakeTokenGenerator(token string) *FakeTokenGenerator {
	return &FakeTokenGenerator{Token: Token(token)}
}

func (g *FakeTokenGenerator) GenerateToken() Token {
	return g.Token
}

type FakeLinkSender struct {
	Sent        []PasswordResetRequest
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeLinkSender() *FakeLinkSender {
	return &FakeLinkSender{}
}

func (s *FakeLinkSender) SendResetLink(ctx context.Context, request PasswordResetRequest) error {
	if s.ReturnError {
		return fmt.Errorf("could not send reset link for request %v", request)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, request)
	return nil
}

func (s *FakeLinkSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeLinkSender) LastSent() PasswordResetRequest {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}
