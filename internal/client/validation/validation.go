// Package validation checks form input before anything reaches the
// network. Failures are reported per field.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldConfirm  = "confirmPassword"
	FieldFullName = "fullName"
	FieldOTP      = "otp"
	FieldKeyword  = "keyword"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	// letterdigit: at least one letter and one digit.
	_ = v.RegisterValidation("letterdigit", func(fl validator.FieldLevel) bool {
		var letter, digit bool
		for _, r := range fl.Field().String() {
			letter = letter || unicode.IsLetter(r)
			digit = digit || unicode.IsDigit(r)
		}
		return letter && digit
	})
	return v
}

// messages is keyed by form field, then by the failing tag. The "" tag is
// the fallback for the field.
var messages = map[string]map[string]string{
	FieldEmail: {
		"required": "Email is required",
		"":         "Email is invalid",
	},
	FieldPassword: {
		"required":    "Password is required",
		"letterdigit": "Password must contain a letter and a digit",
		"":            "Password must be 8 to 64 characters",
	},
	FieldConfirm: {
		"": "Passwords do not match",
	},
	FieldFullName: {
		"required": "Full name is required",
		"":         "Full name must be 2 to 50 characters",
	},
	FieldOTP: {
		"": "Code must be 6 digits",
	},
	FieldKeyword: {
		"": "Enter a keyword",
	},
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type signupForm struct {
	FullName string `form:"fullName" validate:"required,min=2,max=50"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8,max=64,letterdigit"`
	Confirm  string `form:"confirmPassword" validate:"eqfield=Password"`
}

type emailForm struct {
	Email string `form:"email" validate:"required,email"`
}

type otpForm struct {
	OTP string `form:"otp" validate:"required,len=6,number"`
}

type resetForm struct {
	Password string `form:"password" validate:"required,min=8,max=64,letterdigit"`
	Confirm  string `form:"confirmPassword" validate:"eqfield=Password"`
}

type keywordForm struct {
	Keyword string `form:"keyword" validate:"required"`
}

// Errors maps a field name to its message.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no failures.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) {
		return err
	}
	e := Errors{}
	for _, fe := range fes {
		field := fe.Field()
		if _, seen := e[field]; seen {
			continue
		}
		msgs := messages[field]
		msg, ok := msgs[fe.Tag()]
		if !ok {
			msg = msgs[""]
		}
		e[field] = msg
	}
	return e.Err()
}

func Login(email, password string) error {
	return check(loginForm{Email: strings.TrimSpace(email), Password: password})
}

func Signup(fullName, email, password, confirm string) error {
	return check(signupForm{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
		Password: password,
		Confirm:  confirm,
	})
}

func Email(email string) error {
	return check(emailForm{Email: strings.TrimSpace(email)})
}

func OTP(code string) error {
	return check(otpForm{OTP: strings.TrimSpace(code)})
}

func ResetPassword(password, confirm string) error {
	return check(resetForm{Password: password, Confirm: confirm})
}

func Keyword(keyword string) error {
	return check(keywordForm{Keyword: strings.TrimSpace(keyword)})
}
