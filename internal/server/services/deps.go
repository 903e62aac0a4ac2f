package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/studyshare/internal/logging"
	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/dmitrijs2005/studyshare/internal/server/otp"
)

// CodeStore keeps one-time codes, reset tokens and revoked access tokens.
// otp.RedisStore implements it.
type CodeStore interface {
	SaveCode(ctx context.Context, p otp.Purpose, email, code string, ttl time.Duration) error
	VerifyCode(ctx context.Context, p otp.Purpose, email, code string) error
	SaveResetToken(ctx context.Context, token, memberID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// CodeSender delivers a one-time code to an email address.
type CodeSender interface {
	SendCode(ctx context.Context, email string, p otp.Purpose, code string) error
}

// Presigner issues direct-to-storage URLs. storage.S3Presigner implements it.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string) (string, error)
	PresignGet(ctx context.Context, key, fileName string) (string, time.Time, error)
}

// PushSender delivers a notification to a member's devices.
type PushSender interface {
	Push(ctx context.Context, devices []models.DeviceToken, n *models.Notification) error
}

// LogCodeSender writes codes to the log instead of sending mail. It is the
// development mailer.
type LogCodeSender struct {
	Logger logging.Logger
}

func (s LogCodeSender) SendCode(ctx context.Context, email string, p otp.Purpose, code string) error {
	s.Logger.Info(ctx, "one-time code issued", "email", email, "purpose", string(p), "code", code)
	return nil
}

// LogPushSender logs deliveries instead of calling a push gateway.
type LogPushSender struct {
	Logger logging.Logger
}

func (s LogPushSender) Push(ctx context.Context, devices []models.DeviceToken, n *models.Notification) error {
	for _, d := range devices {
		s.Logger.Debug(ctx, "push delivered", "platform", d.Platform, "notification", n.ID, "kind", n.Kind)
	}
	return nil
}
