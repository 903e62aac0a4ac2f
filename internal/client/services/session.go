// Package services contains the client application services: the session
// store, the authentication flows and document file transfer.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/studyshare/internal/dbx"
	"github.com/google/uuid"
)

// Session storage keys.
const (
	KeyAccessToken        = "access_token"
	KeySignupTemp         = "signup_temp_data"
	KeyForgotPasswordTemp = "forgot_password_temp_data"
	KeyResetPasswordToken = "reset_password_token"
	KeyDeviceID           = "device_id"
)

// authKeys are dropped on logout. The device id survives.
var authKeys = []string{KeyAccessToken, KeySignupTemp, KeyForgotPasswordTemp, KeyResetPasswordToken}

// Session is the persisted client session. The auth service is its only
// writer; the HTTP client reads the token through Token on every request,
// so the token is also kept in memory.
type Session struct {
	db   *sql.DB
	repo metadata.Repository

	mu     sync.RWMutex
	token  string
	loaded bool
}

func NewSession(db *sql.DB) *Session {
	return &Session{db: db, repo: metadata.NewSQLiteRepository(db)}
}

// Token implements client.TokenSource.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	if s.loaded {
		tok := s.token
		s.mu.RUnlock()
		return tok, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token, nil
	}
	v, err := s.repo.Get(ctx, KeyAccessToken)
	if err != nil {
		return "", err
	}
	s.token, s.loaded = string(v), true
	return s.token, nil
}

// SetToken stores tok and drops the given transient keys in one transaction.
func (s *Session) SetToken(ctx context.Context, tok string, drop ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAccessToken, []byte(tok)); err != nil {
			return err
		}
		return repo.Delete(ctx, drop...)
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.token, s.loaded = tok, true
	return nil
}

// ClearAuth removes the token and all transient auth state.
func (s *Session) ClearAuth(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.repo.Delete(ctx, authKeys...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.token, s.loaded = "", true
	return nil
}

func (s *Session) putJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, key, b)
}

// getJSON reports false when key is absent or holds something unreadable.
func (s *Session) getJSON(ctx context.Context, key string, v any) (bool, error) {
	b, err := s.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *Session) SetSignupTemp(ctx context.Context, t models.SignupTemp) error {
	return s.putJSON(ctx, KeySignupTemp, t)
}

func (s *Session) SignupTemp(ctx context.Context) (models.SignupTemp, bool, error) {
	var t models.SignupTemp
	ok, err := s.getJSON(ctx, KeySignupTemp, &t)
	return t, ok && t.Email != "", err
}

func (s *Session) SetForgotPasswordTemp(ctx context.Context, t models.ForgotPasswordTemp) error {
	return s.putJSON(ctx, KeyForgotPasswordTemp, t)
}

func (s *Session) ForgotPasswordTemp(ctx context.Context) (models.ForgotPasswordTemp, bool, error) {
	var t models.ForgotPasswordTemp
	ok, err := s.getJSON(ctx, KeyForgotPasswordTemp, &t)
	return t, ok && t.Email != "", err
}

func (s *Session) SetResetToken(ctx context.Context, tok string) error {
	return s.repo.Set(ctx, KeyResetPasswordToken, []byte(tok))
}

func (s *Session) ResetToken(ctx context.Context) (string, error) {
	b, err := s.repo.Get(ctx, KeyResetPasswordToken)
	return string(b), err
}

// DropResetState removes the forgot password and reset token entries.
func (s *Session) DropResetState(ctx context.Context) error {
	return s.repo.Delete(ctx, KeyForgotPasswordTemp, KeyResetPasswordToken)
}

// DeviceID returns the per-install id, creating it on first use.
func (s *Session) DeviceID(ctx context.Context) (string, error) {
	b, err := s.repo.Get(ctx, KeyDeviceID)
	if err != nil {
		return "", err
	}
	if len(b) > 0 {
		return string(b), nil
	}
	id := uuid.NewString()
	if err := s.repo.Set(ctx, KeyDeviceID, []byte(id)); err != nil {
		return "", err
	}
	return id, nil
}
