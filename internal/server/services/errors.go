package services

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotVerified        = errors.New("email is not verified")
	ErrBanned             = errors.New("account is banned")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// ValidationError reports bad input. Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }
