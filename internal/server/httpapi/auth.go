package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/studyshare/internal/server/services"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type codeRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

type resetTicket struct {
	ResetToken string `json:"resetToken"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var in services.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.members.Signup(r.Context(), in); err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, messageBody{Message: "Check your email for the verification code"})
}

func (h *Handler) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var in codeRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.members.VerifySignup(r.Context(), in.Email, in.OTP)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *Handler) resendOTP(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.members.ResendCode(r.Context(), in.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "A new code has been sent")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.members.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var in emailRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.members.ForgotPassword(r.Context(), in.Email); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "If the email is registered, a reset code has been sent")
}

func (h *Handler) verifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var in codeRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	tok, err := h.members.VerifyResetCode(r.Context(), in.Email, in.OTP)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeData(w, http.StatusOK, resetTicket{ResetToken: tok})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in resetRequest
	if err := decodeJSON(w, r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.members.ResetPassword(r.Context(), in.ResetToken, in.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Password has been reset")
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.members.Logout(r.Context(), tokenFrom(r.Context())); err != nil {
		h.fail(w, r, err)
		return
	}
	writeMessage(w, "Logged out")
}
