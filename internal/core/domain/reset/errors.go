package reset

import "errors"

var (
	ErrRequestDoesNotExist = errors.New("password reset request does not exist or has expired")
	ErrTokenAlreadyExists  = errors.New("password reset token already exists")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrNotificationFailed  = errors.New("could not send password reset link")
)
