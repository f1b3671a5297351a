package validateresettoken

import (
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/services"
	"context"
	"errors"
)

type Input struct {
	Token reset.Token
}

type Result struct {
	Request reset.PasswordResetRequest
}

type service struct {
	log             logging.Logger
	resetRepository reset.Repository
}

func New(
	log logging.Logger,
	resetRepository reset.Repository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if resetRepository == nil {
		panic(e.NewNilArgumentError("resetRepository"))
	}
	return &service{log: log, resetRepository: resetRepository}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	// An empty token never hits the storage.
	if input.Token == "" {
		return result, reset.ErrRequestDoesNotExist
	}
	request, err := s.resetRepository.GetActiveByToken(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, reset.ErrRequestDoesNotExist) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get password reset request by token.",
			logging.Entry("err", err),
		)
		return result, err
	}
	return Result{Request: request}, nil
}
