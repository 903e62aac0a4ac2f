package services

import "errors"

var (
	ErrNoPendingSignup = errors.New("no signup in progress")
	ErrNoPendingReset  = errors.New("no password reset in progress")
	ErrNotLoggedIn     = errors.New("not logged in")
)
