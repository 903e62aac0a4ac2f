package services

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/studyshare/internal/server/models"
	"github.com/go-playground/validator/v10"
)

const (
	minPasswordLen = 8
	maxNameLen     = 100
	maxBioLen      = 500
)

// validate is safe for concurrent use and caches rule parsing.
var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return invalid("Email is required")
	}
	if err := validate.Var(email, "email"); err != nil {
		return invalid("Email is invalid")
	}
	return nil
}

func validatePassword(pw string) error {
	if err := validate.Var(pw, "min="+strconv.Itoa(minPasswordLen)); err != nil {
		return invalid("Password must be at least 8 characters")
	}
	return nil
}

// validateName checks the trimmed name; validator counts runes for min/max.
func validateName(name string) error {
	name = strings.TrimSpace(name)
	if err := validate.Var(name, "required"); err != nil {
		return invalid("Full name is required")
	}
	if err := validate.Var(name, "max="+strconv.Itoa(maxNameLen)); err != nil {
		return invalid("Full name is too long")
	}
	return nil
}

var documentRules = map[string]string{
	"Title.required":     "Title is required",
	"Title.max":          "Title is too long",
	"FileName.required":  "File name is required",
	"SizeBytes.gte":      "File size is invalid",
	"FacultyID.required": "Faculty is required",
	"SubjectID.required": "Subject is required",
}

// validateNewDocument trims in, checks its struct tags and defaults the
// content type. Only the first failing rule is reported.
func validateNewDocument(in *models.NewDocument) error {
	in.Title = strings.TrimSpace(in.Title)
	in.FileName = strings.TrimSpace(in.FileName)

	var verrs validator.ValidationErrors
	if err := validate.Struct(in); errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if msg, ok := documentRules[fe.Field()+"."+fe.Tag()]; ok {
			return invalid(msg)
		}
		return invalid(fe.Field() + " is invalid")
	} else if err != nil {
		return err
	}

	if in.ContentType == "" {
		in.ContentType = "application/octet-stream"
	}
	return nil
}
