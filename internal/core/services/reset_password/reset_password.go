package resetpassword

import (
	e "ambrotos/internal/core/domain/errors"
	"ambrotos/internal/core/domain/logging"
	"ambrotos/internal/core/domain/reset"
	"ambrotos/internal/core/domain/user"
	"ambrotos/internal/core/services"
	"context"
	"errors"
)

const MinPasswordLength = 8

type Input struct {
	Token                reset.Token
	Password             user.RawPassword
	PasswordConfirmation user.RawPassword
}

type Result struct {
	Email string
}

type service struct {
	log               logging.Logger
	resetRepository   reset.Repository
	accountRepository user.AccountRepository
	passwordHasher    user.PasswordHasher
}

func New(
	log logging.Logger,
	resetRepository reset.Repository,
	accountRepository user.AccountRepository,
	passwordHasher user.PasswordHasher,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if resetRepository == nil {
		panic(e.NewNilArgumentError("resetRepository"))
	}
	if accountRepository == nil {
		panic(e.NewNilArgumentError("accountRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	return &service{
		log:               log,
		resetRepository:   resetRepository,
		accountRepository: accountRepository,
		passwordHasher:    passwordHasher,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
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

	if input.Password != input.PasswordConfirmation {
		return result, reset.ErrPasswordMismatch
	}
	if len(input.Password) < MinPasswordLength {
		return result, reset.ErrPasswordTooShort
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	err = s.accountRepository.SetPasswordByEmail(ctx, request.Email, passwordHash)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// No account behind the reset request. The token is still
		// consumed below so it cannot be probed further.
		s.log.Info(
			ctx,
			"No account for password reset request.",
			logging.Entry("requestID", request.ID),
		)
	} else if err != nil {
		s.log.Error(
			ctx,
			"Could not update account password.",
			logging.Entry("requestID", request.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	// Conditional consume: of two submissions racing on the same token,
	// only the one that actually removes the row wins.
	deleted, err := s.resetRepository.DeleteByToken(ctx, input.Token)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not delete password reset request.",
			logging.Entry("requestID", request.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	if deleted == 0 {
		return result, reset.ErrRequestDoesNotExist
	}

	s.log.Info(
		ctx,
		"Password has been reset.",
		logging.Entry("requestID", request.ID),
	)
	return Result{Email: string(request.Email)}, nil
}
