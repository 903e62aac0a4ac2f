package models

// AuthResult is returned by login and OTP verification.
type AuthResult struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// ResetTicket is returned once a password reset OTP is accepted.
type ResetTicket struct {
	ResetToken string `json:"resetToken"`
}

// Message is the payload of endpoints that only acknowledge.
type Message struct {
	Message string `json:"message"`
}

// SignupTemp is the transient signup state kept between the signup and the
// OTP screens.
type SignupTemp struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// ForgotPasswordTemp is the transient state kept between the forgot password
// and the reset OTP screens.
type ForgotPasswordTemp struct {
	Email string `json:"email"`
}
