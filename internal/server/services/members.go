// Package services contains the server's business logic. Services are
// built over a repomanager.RepositoryManager and a *sql.DB so that work
// spanning several repositories can share a transaction.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/common"
	"github.com/dmitrijs2005/studyshare/internal/cryptox"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/auth"
	"github.com/dmitrijs2005/studyshare/internal/server/config"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/otp"
	"github.com/dmitrijs2005/studyshare/internal/server/repositories/repomanager"
)

const otpDigits = 6

// AuthResult is returned by login and by a successful signup verification.
type AuthResult struct {
	AccessToken string                `json:"accessToken"`
	User        *models.MemberProfile `json:"user"`
}

type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// MemberService handles accounts: signup with email verification, login,
// password reset and profiles.
type MemberService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codes       CodeStore
	sender      CodeSender
	logger      logging.Logger

	jwtSecret      []byte
	accessTokenTTL time.Duration
	otpTTL         time.Duration
	resetTokenTTL  time.Duration
	bcryptCost     int
}

func NewMemberService(db *sql.DB, m repomanager.RepositoryManager, codes CodeStore, sender CodeSender,
	cfg *config.Config, logger logging.Logger) *MemberService {
	return &MemberService{
		db:             db,
		repomanager:    m,
		codes:          codes,
		sender:         sender,
		logger:         logger,
		jwtSecret:      []byte(cfg.SecretKey),
		accessTokenTTL: cfg.AccessTokenTTL,
		otpTTL:         cfg.OTPTTL,
		resetTokenTTL:  cfg.ResetTokenTTL,
		bcryptCost:     cfg.BcryptCost,
	}
}

// Signup creates an unverified member and emails a code. Signing up again
// with an unverified email replaces the password and sends a new code.
func (s *MemberService) Signup(ctx context.Context, in SignupInput) error {
	email := normalizeEmail(in.Email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if err := validateName(in.FullName); err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	repo := s.repomanager.Members(s.db)
	existing, err := repo.GetByEmail(ctx, email)
	switch {
	case err == nil && existing.Status == models.MemberActive:
		return ErrEmailTaken
	case err == nil:
		if err := repo.SetPasswordHash(ctx, existing.ID, hash); err != nil {
			return fmt.Errorf("signup: %w", err)
		}
	case errors.Is(err, common.ErrorNotFound):
		_, err := repo.Create(ctx, &models.Member{
			Email:        email,
			FullName:     strings.TrimSpace(in.FullName),
			PasswordHash: hash,
		})
		if errors.Is(err, common.ErrorAlreadyExists) {
			return ErrEmailTaken
		}
		if err != nil {
			return fmt.Errorf("signup: %w", err)
		}
	default:
		return fmt.Errorf("signup: %w", err)
	}

	return s.issueCode(ctx, otp.PurposeSignup, email)
}

func (s *MemberService) issueCode(ctx context.Context, p otp.Purpose, email string) error {
	code, err := cryptox.RandomDigits(otpDigits)
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	if err := s.codes.SaveCode(ctx, p, email, code, s.otpTTL); err != nil {
		return err
	}
	return s.sender.SendCode(ctx, email, p, code)
}

// VerifySignup activates the member and logs them in.
func (s *MemberService) VerifySignup(ctx context.Context, email, code string) (*AuthResult, error) {
	email = normalizeEmail(email)
	repo := s.repomanager.Members(s.db)

	m, err := repo.GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrInvalidOTP
	}
	if err != nil {
		return nil, fmt.Errorf("verify signup: %w", err)
	}

	if err := s.codes.VerifyCode(ctx, otp.PurposeSignup, email, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}

	if m.Status != models.MemberActive {
		if err := repo.SetStatus(ctx, m.ID, models.MemberActive); err != nil {
			return nil, fmt.Errorf("verify signup: %w", err)
		}
		m.Status = models.MemberActive
	}
	return s.authResult(ctx, m)
}

// ResendCode sends a new signup code. Unknown emails succeed silently so
// the endpoint does not reveal who is registered.
func (s *MemberService) ResendCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	m, err := s.repomanager.Members(s.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("resend code: %w", err)
	}
	if m.Status == models.MemberActive {
		return invalid("Email is already verified")
	}
	return s.issueCode(ctx, otp.PurposeSignup, email)
}

func (s *MemberService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	m, err := s.repomanager.Members(s.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := cryptox.CheckPassword(m.PasswordHash, password); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if m.Status != models.MemberActive {
		return nil, ErrNotVerified
	}
	if m.IsBanned() {
		return nil, ErrBanned
	}
	return s.authResult(ctx, m)
}

// ForgotPassword emails a reset code to verified members. Unknown emails
// succeed silently.
func (s *MemberService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}

	m, err := s.repomanager.Members(s.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if m.Status != models.MemberActive {
		return nil
	}
	return s.issueCode(ctx, otp.PurposeReset, email)
}

// VerifyResetCode trades a reset code for a one-shot reset token.
func (s *MemberService) VerifyResetCode(ctx context.Context, email, code string) (string, error) {
	email = normalizeEmail(email)
	m, err := s.repomanager.Members(s.db).GetByEmail(ctx, email)
	if errors.Is(err, common.ErrorNotFound) {
		return "", ErrInvalidOTP
	}
	if err != nil {
		return "", fmt.Errorf("verify reset code: %w", err)
	}

	if err := s.codes.VerifyCode(ctx, otp.PurposeReset, email, code); err != nil {
		if errors.Is(err, otp.ErrInvalidCode) {
			return "", ErrInvalidOTP
		}
		return "", err
	}

	token, err := cryptox.RandomToken(32)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.codes.SaveResetToken(ctx, token, m.ID, s.resetTokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (s *MemberService) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	memberID, err := s.codes.ConsumeResetToken(ctx, resetToken)
	if errors.Is(err, otp.ErrInvalidToken) {
		return ErrInvalidResetToken
	}
	if err != nil {
		return err
	}

	hash, err := cryptox.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := s.repomanager.Members(s.db).SetPasswordHash(ctx, memberID, hash); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its member. Revoked, expired and
// malformed tokens fail with common token errors; banned members with
// ErrBanned.
func (s *MemberService) Authenticate(ctx context.Context, token string) (*models.Member, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	revoked, err := s.codes.IsRevoked(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrInvalidToken
	}

	m, err := s.repomanager.Members(s.db).GetByID(ctx, claims.MemberID)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if m.IsBanned() {
		return nil, ErrBanned
	}
	return m, nil
}

// Logout revokes token for the rest of its lifetime.
func (s *MemberService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	ttl := s.accessTokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.codes.Revoke(ctx, token, ttl)
}

// Profile returns member id as seen by viewerID.
func (s *MemberService) Profile(ctx context.Context, id, viewerID string) (*models.MemberProfile, error) {
	return s.repomanager.Members(s.db).Profile(ctx, id, viewerID)
}

func (s *MemberService) UpdateProfile(ctx context.Context, memberID string, upd models.ProfileUpdate) (*models.MemberProfile, error) {
	if upd.FullName != nil {
		if err := validateName(*upd.FullName); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*upd.FullName)
		upd.FullName = &name
	}
	if upd.Bio != nil && len([]rune(*upd.Bio)) > maxBioLen {
		return nil, invalid("Bio is too long")
	}

	repo := s.repomanager.Members(s.db)
	if err := repo.UpdateProfile(ctx, memberID, upd); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return repo.Profile(ctx, memberID, memberID)
}

func (s *MemberService) authResult(ctx context.Context, m *models.Member) (*AuthResult, error) {
	token, err := auth.GenerateToken(m.ID, string(m.Role), s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}
	p, err := s.repomanager.Members(s.db).Profile(ctx, m.ID, m.ID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	s.logger.Info(ctx, "member signed in", "member", m.ID)
	return &AuthResult{AccessToken: token, User: p}, nil
}
