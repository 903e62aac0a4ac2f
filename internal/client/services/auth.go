package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/client/api"
	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/query"
	"github.com/dmitrijs2005/studyshare/internal/client/validation"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthAPI is the slice of the resource accessors the auth flows need.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	Signup(ctx context.Context, req api.SignupRequest) (models.Message, error)
	VerifyOTP(ctx context.Context, email, otp string) (models.AuthResult, error)
	ResendOTP(ctx context.Context, email string) (models.Message, error)
	ForgotPassword(ctx context.Context, email string) (models.Message, error)
	VerifyResetOTP(ctx context.Context, email, otp string) (models.ResetTicket, error)
	ResetPassword(ctx context.Context, resetToken, newPassword string) (models.Message, error)
	Logout(ctx context.Context) error
}

// AuthService runs the account flows of the client.
//
// Contract:
//   - Restore: pick up a stored session at start, dropping an expired token.
//   - Login, VerifySignupOTP: store the access token.
//   - Signup, ForgotPassword, VerifyResetOTP: store the transient state the
//     next step of the flow needs.
//   - ResetPassword: consume the reset token.
//   - Logout, ClearLocal: forget the session and every cached query.
//
// Input is validated before any request is made.
type AuthService interface {
	Restore(ctx context.Context) (bool, error)
	IsAuthenticated(ctx context.Context) bool
	Login(ctx context.Context, email, password string) (models.User, error)
	Signup(ctx context.Context, fullName, email, password, confirm string) (models.Message, error)
	VerifySignupOTP(ctx context.Context, otp string) (models.User, error)
	ResendOTP(ctx context.Context) (models.Message, error)
	ForgotPassword(ctx context.Context, email string) (models.Message, error)
	VerifyResetOTP(ctx context.Context, otp string) error
	ResetPassword(ctx context.Context, password, confirm string) (models.Message, error)
	Logout(ctx context.Context) error
	ClearLocal(ctx context.Context) error
}

type authService struct {
	api     AuthAPI
	session *Session
	cache   *query.Cache
	logger  logging.Logger
	now     func() time.Time
}

func NewAuthService(a AuthAPI, session *Session, cache *query.Cache, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &authService{api: a, session: session, cache: cache, logger: logger, now: time.Now}
}

// tokenExpired reads the exp claim without verifying the signature; the
// server remains the judge of validity. Tokens that are not JWTs are kept.
func (s *authService) tokenExpired(ctx context.Context, tok string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		s.logger.Debug(ctx, "stored token is not a jwt", "error", err)
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

func (s *authService) Restore(ctx context.Context) (bool, error) {
	tok, err := s.session.Token(ctx)
	if err != nil {
		return false, fmt.Errorf("read session: %w", err)
	}
	if tok == "" {
		return false, nil
	}
	if s.tokenExpired(ctx, tok) {
		s.logger.Info(ctx, "stored session expired")
		return false, s.ClearLocal(ctx)
	}
	return true, nil
}

func (s *authService) IsAuthenticated(ctx context.Context) bool {
	tok, err := s.session.Token(ctx)
	return err == nil && tok != ""
}

func (s *authService) Login(ctx context.Context, email, password string) (models.User, error) {
	if err := validation.Login(email, password); err != nil {
		return models.User{}, err
	}
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return models.User{}, fmt.Errorf("login error: %w", err)
	}
	if err := s.session.SetToken(ctx, res.AccessToken); err != nil {
		return models.User{}, err
	}
	s.cache.Clear()
	return res.User, nil
}

func (s *authService) Signup(ctx context.Context, fullName, email, password, confirm string) (models.Message, error) {
	if err := validation.Signup(fullName, email, password, confirm); err != nil {
		return models.Message{}, err
	}
	msg, err := s.api.Signup(ctx, api.SignupRequest{Email: email, Password: password, FullName: fullName})
	if err != nil {
		return models.Message{}, fmt.Errorf("signup error: %w", err)
	}
	if err := s.session.SetSignupTemp(ctx, models.SignupTemp{Email: email, FullName: fullName}); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (s *authService) VerifySignupOTP(ctx context.Context, otp string) (models.User, error) {
	if err := validation.OTP(otp); err != nil {
		return models.User{}, err
	}
	temp, ok, err := s.session.SignupTemp(ctx)
	if err != nil {
		return models.User{}, err
	}
	if !ok {
		return models.User{}, ErrNoPendingSignup
	}
	res, err := s.api.VerifyOTP(ctx, temp.Email, otp)
	if err != nil {
		return models.User{}, fmt.Errorf("verify otp error: %w", err)
	}
	if err := s.session.SetToken(ctx, res.AccessToken, KeySignupTemp); err != nil {
		return models.User{}, err
	}
	s.cache.Clear()
	return res.User, nil
}

func (s *authService) ResendOTP(ctx context.Context) (models.Message, error) {
	temp, ok, err := s.session.SignupTemp(ctx)
	if err != nil {
		return models.Message{}, err
	}
	if !ok {
		return models.Message{}, ErrNoPendingSignup
	}
	return s.api.ResendOTP(ctx, temp.Email)
}

func (s *authService) ForgotPassword(ctx context.Context, email string) (models.Message, error) {
	if err := validation.Email(email); err != nil {
		return models.Message{}, err
	}
	msg, err := s.api.ForgotPassword(ctx, email)
	if err != nil {
		return models.Message{}, fmt.Errorf("forgot password error: %w", err)
	}
	if err := s.session.SetForgotPasswordTemp(ctx, models.ForgotPasswordTemp{Email: email}); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

func (s *authService) VerifyResetOTP(ctx context.Context, otp string) error {
	if err := validation.OTP(otp); err != nil {
		return err
	}
	temp, ok, err := s.session.ForgotPasswordTemp(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoPendingReset
	}
	ticket, err := s.api.VerifyResetOTP(ctx, temp.Email, otp)
	if err != nil {
		return fmt.Errorf("verify reset otp error: %w", err)
	}
	return s.session.SetResetToken(ctx, ticket.ResetToken)
}

func (s *authService) ResetPassword(ctx context.Context, password, confirm string) (models.Message, error) {
	if err := validation.ResetPassword(password, confirm); err != nil {
		return models.Message{}, err
	}
	tok, err := s.session.ResetToken(ctx)
	if err != nil {
		return models.Message{}, err
	}
	if tok == "" {
		return models.Message{}, ErrNoPendingReset
	}
	msg, err := s.api.ResetPassword(ctx, tok, password)
	if err != nil {
		return models.Message{}, fmt.Errorf("reset password error: %w", err)
	}
	if err := s.session.DropResetState(ctx); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// Logout tells the server, then forgets the session whatever it answered.
func (s *authService) Logout(ctx context.Context) error {
	if !s.IsAuthenticated(ctx) {
		return ErrNotLoggedIn
	}
	if err := s.api.Logout(ctx); err != nil {
		s.logger.Warn(ctx, "server logout failed", "error", err)
	}
	return s.ClearLocal(ctx)
}

func (s *authService) ClearLocal(ctx context.Context) error {
	s.cache.Clear()
	return s.session.ClearAuth(ctx)
}
