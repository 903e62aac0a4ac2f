// Package push registers the device for push notifications.
package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/logging"
)

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
	PlatformDesktop = "desktop"
)

// Importance of a notification channel.
type Importance int

const (
	ImportanceDefault Importance = iota
	ImportanceHigh
)

type Channel struct {
	ID         string
	Name       string
	Importance Importance
}

// DefaultChannel is the single Android channel notifications are posted to.
var DefaultChannel = Channel{ID: "default", Name: "Default", Importance: ImportanceHigh}

var ErrNoToken = errors.New("no push token")

// TokenProvider yields the token the push service knows this device by.
type TokenProvider interface {
	DeviceToken(ctx context.Context) (string, error)
}

// ChannelRegistrar creates notification channels on platforms that have them.
type ChannelRegistrar interface {
	RegisterChannel(ctx context.Context, ch Channel) error
}

// TokenRegistrar sends the device token to the server.
type TokenRegistrar interface {
	RegisterDeviceToken(ctx context.Context, tok models.DeviceToken) (models.Message, error)
}

type Registrar struct {
	platform string
	tokens   TokenProvider
	channels ChannelRegistrar
	server   TokenRegistrar
	logger   logging.Logger
}

// NewRegistrar wires the registration steps. channels may be nil where the
// platform has no channels.
func NewRegistrar(platform string, tokens TokenProvider, channels ChannelRegistrar, server TokenRegistrar, logger logging.Logger) *Registrar {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registrar{platform: platform, tokens: tokens, channels: channels, server: server, logger: logger}
}

// Register obtains the device token, sets up the Android channel when on
// android, and posts {token, platform} to the server. It returns the token.
func (r *Registrar) Register(ctx context.Context) (string, error) {
	tok, err := r.tokens.DeviceToken(ctx)
	if err != nil {
		return "", fmt.Errorf("device token: %w", err)
	}
	if tok == "" {
		return "", ErrNoToken
	}

	if r.platform == PlatformAndroid && r.channels != nil {
		if err := r.channels.RegisterChannel(ctx, DefaultChannel); err != nil {
			return "", fmt.Errorf("register channel: %w", err)
		}
	}

	if _, err := r.server.RegisterDeviceToken(ctx, models.DeviceToken{Token: tok, Platform: r.platform}); err != nil {
		return "", fmt.Errorf("register device token: %w", err)
	}
	r.logger.Info(ctx, "push token registered", "platform", r.platform)
	return tok, nil
}

// DeviceIDProvider uses a stable per-install id as the token.
type DeviceIDProvider struct {
	ID func(ctx context.Context) (string, error)
}

func (p DeviceIDProvider) DeviceToken(ctx context.Context) (string, error) {
	return p.ID(ctx)
}

// LogChannels records channel registration where there is no OS to tell.
type LogChannels struct {
	Logger logging.Logger
}

func (l LogChannels) RegisterChannel(ctx context.Context, ch Channel) error {
	if l.Logger != nil {
		l.Logger.Debug(ctx, "notification channel", "id", ch.ID, "name", ch.Name, "importance", int(ch.Importance))
	}
	return nil
}
