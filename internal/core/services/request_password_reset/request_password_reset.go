package requestpasswordreset

import (
	c "ambrotos/internal/core/domain/common"
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/services"
	"context"
	"errors"
	"fmt"
	"time"
)

type Input struct {
	Email c.Email
}

func (i Input) GetRateLimitKey() string {
	return fmt.Sprintf("request-password-reset::%s", i.Email)
}

type Result struct {
	Request reset.PasswordResetRequest
}

type service struct {
	log             logging.Logger
	resetRepository reset.Repository
	tokenGenerator  reset.TokenGenerator
	linkSender      reset.LinkSender
	tokenTTL        time.Duration
	now             func() time.Time
}

func New(
	log logging.Logger,
	resetRepository reset.Repository,
	tokenGenerator reset.TokenGenerator,
	linkSender reset.LinkSender,
	tokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if resetRepository == nil {
		panic(e.NewNilArgumentError("resetRepository"))
	}
	if tokenGenerator == nil {
		panic(e.NewNilArgumentError("tokenGenerator"))
	}
	if linkSender == nil {
		panic(e.NewNilArgumentError("linkSender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:             log,
		resetRepository: resetRepository,
		tokenGenerator:  tokenGenerator,
		linkSender:      linkSender,
		tokenTTL:        tokenTTL,
		now:             now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	token := s.tokenGenerator.GenerateToken()
	request, err := s.resetRepository.Create(ctx, reset.CreateInput{
		Email:     input.Email,
		Token:     token,
		ExpiresAt: s.now().Add(s.tokenTTL),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create password reset request.",
			logging.Entry("email", input.Email),
			logging.Entry("err", err),
		)
		return result, err
	}

	// The stored token stays valid even if delivery fails; a single
	// attempt is made, retrying would risk duplicate emails.
	if err := s.linkSender.SendResetLink(ctx, request); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("email", input.Email),
			logging.Entry("requestID", request.ID),
			logging.Entry("err", err),
		)
		return Result{Request: request}, reset.ErrNotificationFailed
	}

	s.log.Info(
		ctx,
		"Password reset link has been sent.",
		logging.Entry("email", input.Email),
		logging.Entry("requestID", request.ID),
		logging.Entry("expiresAt", request.ExpiresAt),
	)
	return Result{Request: request}, nil
}
