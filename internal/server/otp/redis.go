// Package otp keeps one-time email codes, password reset tokens and revoked
// access tokens in Redis. Only SHA-256 digests of codes and tokens are
// stored, and Redis TTLs expire them.
package otp

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/cryptox"
	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/redis/go-redis/v9"
)

// Purpose separates codes issued for different flows to the same email.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeReset  Purpose = "reset"
)

// MaxAttempts wrong guesses burn a code.
const MaxAttempts = 5

var (
	ErrInvalidCode  = errors.New("invalid or expired code")
	ErrInvalidToken = errors.New("invalid or expired reset token")
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
}

type RedisStore struct {
	rdb    redis.Cmdable
	logger logging.Logger
}

func NewRedisStore(rdb redis.Cmdable, logger logging.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger}
}

func codeKey(p Purpose, email string) string {
	return fmt.Sprintf("otp:%s:%s", p, strings.ToLower(strings.TrimSpace(email)))
}

func attemptsKey(p Purpose, email string) string {
	return codeKey(p, email) + ":attempts"
}

func resetKey(token string) string {
	return "reset:" + cryptox.Digest(token)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SaveCode stores code for email, replacing any earlier code for the same
// purpose and resetting its attempt counter.
func (s *RedisStore) SaveCode(ctx context.Context, p Purpose, email, code string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, codeKey(p, email), cryptox.Digest(code), ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	if err := s.rdb.Del(ctx, attemptsKey(p, email)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// VerifyCode consumes the code on success. Unknown, expired and wrong codes
// all yield ErrInvalidCode.
func (s *RedisStore) VerifyCode(ctx context.Context, p Purpose, email, code string) error {
	key := codeKey(p, email)
	stored, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrInvalidCode
	}
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(cryptox.Digest(code))) == 1 {
		if err := s.rdb.Del(ctx, key, attemptsKey(p, email)).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	}

	s.recordFailure(ctx, p, email)
	return ErrInvalidCode
}

func (s *RedisStore) recordFailure(ctx context.Context, p Purpose, email string) {
	key, akey := codeKey(p, email), attemptsKey(p, email)
	n, err := s.rdb.Incr(ctx, akey).Result()
	if err != nil {
		s.logger.Warn(ctx, "otp attempt counter failed", "error", err)
		return
	}
	if n == 1 {
		if ttl, err := s.rdb.PTTL(ctx, key).Result(); err == nil && ttl > 0 {
			s.rdb.PExpire(ctx, akey, ttl)
		}
	}
	if n >= MaxAttempts {
		s.logger.Info(ctx, "otp burned after too many attempts", "purpose", string(p))
		s.rdb.Del(ctx, key, akey)
	}
}

// SaveResetToken maps token to memberID until ttl passes or it is consumed.
func (s *RedisStore) SaveResetToken(ctx context.Context, token, memberID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, resetKey(token), memberID, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// ConsumeResetToken returns the member the token was issued to and deletes
// it, so a token works once.
func (s *RedisStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	memberID, err := s.rdb.GetDel(ctx, resetKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("redis getdel: %w", err)
	}
	return memberID, nil
}

func revokedKey(token string) string {
	return "revoked:" + cryptox.Digest(token)
}

// Revoke blocks an access token until ttl passes. Pass the token's
// remaining lifetime so the entry expires with it.
func (s *RedisStore) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.rdb.Set(ctx, revokedKey(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
