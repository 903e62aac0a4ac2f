package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

func (a *API) authResult(ctx context.Context, path string, body any) (models.AuthResult, error) {
	raw, err := a.call(ctx, http.MethodPost, path, body)
	if err != nil {
		return models.AuthResult{}, err
	}
	res := decodeRecord(raw, models.AuthResult{})
	if res.AccessToken == "" {
		return models.AuthResult{}, fmt.Errorf("%s: %w: no access token", path, ErrMalformedResponse)
	}
	return res, nil
}

func (a *API) message(ctx context.Context, method, path string, body any) (models.Message, error) {
	raw, err := a.call(ctx, method, path, body)
	if err != nil {
		return models.Message{}, err
	}
	return decodeRecord(raw, models.Message{}), nil
}

// Login is POST /auth/login.
func (a *API) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	return a.authResult(ctx, "/auth/login", map[string]string{"email": email, "password": password})
}

// Signup is POST /auth/signup; the server mails an OTP.
func (a *API) Signup(ctx context.Context, req SignupRequest) (models.Message, error) {
	return a.message(ctx, http.MethodPost, "/auth/signup", req)
}

// VerifyOTP is POST /auth/verify-otp; it activates the account.
func (a *API) VerifyOTP(ctx context.Context, email, otp string) (models.AuthResult, error) {
	return a.authResult(ctx, "/auth/verify-otp", map[string]string{"email": email, "otp": otp})
}

// ResendOTP is POST /auth/resend-otp.
func (a *API) ResendOTP(ctx context.Context, email string) (models.Message, error) {
	return a.message(ctx, http.MethodPost, "/auth/resend-otp", map[string]string{"email": email})
}

// ForgotPassword is POST /auth/forgot-password.
func (a *API) ForgotPassword(ctx context.Context, email string) (models.Message, error) {
	return a.message(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email})
}

// VerifyResetOTP is POST /auth/verify-reset-otp.
func (a *API) VerifyResetOTP(ctx context.Context, email, otp string) (models.ResetTicket, error) {
	raw, err := a.call(ctx, http.MethodPost, "/auth/verify-reset-otp", map[string]string{"email": email, "otp": otp})
	if err != nil {
		return models.ResetTicket{}, err
	}
	t := decodeRecord(raw, models.ResetTicket{})
	if t.ResetToken == "" {
		return models.ResetTicket{}, fmt.Errorf("verify reset otp: %w: no reset token", ErrMalformedResponse)
	}
	return t, nil
}

// ResetPassword is POST /auth/reset-password.
func (a *API) ResetPassword(ctx context.Context, resetToken, newPassword string) (models.Message, error) {
	return a.message(ctx, http.MethodPost, "/auth/reset-password",
		map[string]string{"resetToken": resetToken, "newPassword": newPassword})
}

// Logout is POST /auth/logout.
func (a *API) Logout(ctx context.Context) error {
	_, err := a.call(ctx, http.MethodPost, "/auth/logout", nil)
	return err
}
