package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/studyshare/internal/client/models"
	"github.com/dmitrijs2005/studyshare/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) text(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) password(prompt string) (string, error) {
	return getPassword(prompt, a.out)
}

func (a *App) messageOr(m models.Message, fallback string) {
	if m.Message != "" {
		a.println(m.Message)
		return
	}
	a.println(fallback)
}

func (a *App) signedIn(ctx context.Context, u models.User) {
	a.unmount()
	a.setUser(&u)
	a.printf("Signed in as %s\n", u.Email)
	a.registerPush(ctx)
}

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := a.text("Enter email")
	if err != nil {
		return err
	}
	password, err := a.password("Enter password")
	if err != nil {
		return err
	}

	u, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.signedIn(ctx, u)
	return nil
}

func (a *App) signup(ctx context.Context, _ []string) error {
	name, err := a.text("Enter full name")
	if err != nil {
		return err
	}
	email, err := a.text("Enter email")
	if err != nil {
		return err
	}
	password, err := a.password("Enter password")
	if err != nil {
		return err
	}
	confirm, err := a.password("Confirm password")
	if err != nil {
		return err
	}

	msg, err := a.auth.Signup(ctx, name, email, password, confirm)
	if err != nil {
		return err
	}
	a.messageOr(msg, "Account created.")
	a.println("Enter the code we emailed you with 'verify'.")
	return nil
}

func (a *App) verify(ctx context.Context, _ []string) error {
	otp, err := a.text("Enter the 6-digit code")
	if err != nil {
		return err
	}
	u, err := a.auth.VerifySignupOTP(ctx, otp)
	if err != nil {
		return err
	}
	a.println("Email verified.")
	a.signedIn(ctx, u)
	return nil
}

func (a *App) resend(ctx context.Context, _ []string) error {
	msg, err := a.auth.ResendOTP(ctx)
	if err != nil {
		return err
	}
	a.messageOr(msg, "A new code is on its way.")
	return nil
}

func (a *App) forgot(ctx context.Context, _ []string) error {
	email, err := a.text("Enter email")
	if err != nil {
		return err
	}
	msg, err := a.auth.ForgotPassword(ctx, email)
	if err != nil {
		return err
	}
	a.messageOr(msg, "Check your email for a reset code.")
	a.println("Continue with 'reset'.")
	return nil
}

// reset verifies the emailed code, then asks for the new password.
func (a *App) reset(ctx context.Context, _ []string) error {
	otp, err := a.text("Enter the 6-digit code")
	if err != nil {
		return err
	}
	if err := a.auth.VerifyResetOTP(ctx, otp); err != nil {
		return err
	}

	password, err := a.password("Enter new password")
	if err != nil {
		return err
	}
	confirm, err := a.password("Confirm password")
	if err != nil {
		return err
	}
	msg, err := a.auth.ResetPassword(ctx, password, confirm)
	if err != nil {
		return err
	}
	a.messageOr(msg, "Password updated. You can log in now.")
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	err := a.auth.Logout(ctx)
	a.signedOut()
	if errors.Is(err, services.ErrNotLoggedIn) {
		a.println("You are not logged in.")
		return nil
	}
	if err != nil {
		return err
	}
	a.println("Signed out.")
	return nil
}
