package services

import (
	"ambrotos/internal/app/deps"
	drl "ambrotos/internal/core/domain/rate_limiter"
	"ambrotos/internal/core/services"
	ratelimiting "ambrotos/internal/core/services/rate_limiting"
	requestpasswordreset "ambrotos/internal/core/services/request_password_reset"
	resetpassword "ambrotos/internal/core/services/reset_password"
	validateresettoken "ambrotos/internal/core/services/validate_reset_token"
)

type Services struct {
	RequestPasswordReset services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	ValidateResetToken   services.Service[validateresettoken.Input, validateresettoken.Result]
	ResetPassword        services.Service[resetpassword.Input, resetpassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	requestPasswordReset := ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: deps.Config.PasswordResetRequestsPerHour},
		requestpasswordreset.New(
			deps.Logger,
			deps.ResetRepository,
			deps.ResetTokenGenerator,
			deps.ResetLinkSender,
			deps.Config.PasswordResetTokenTTL,
			deps.Now,
		),
	)
	validateResetToken := validateresettoken.New(
		deps.Logger,
		deps.ResetRepository,
	)
	resetPassword := resetpassword.New(
		deps.Logger,
		deps.ResetRepository,
		deps.AccountRepository,
		deps.PasswordHasher,
	)

	return &Services{
		RequestPasswordReset: requestPasswordReset,
		ValidateResetToken:   validateResetToken,
		ResetPassword:        resetPassword,
	}
}
