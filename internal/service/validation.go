package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

const minPasswordLength = 6

var (
	validate          = validator.New()
	phonePattern      = regexp.MustCompile(`^[6-9]\d{9}$`)
	nationalIDPattern = regexp.MustCompile(`^\d{12}$`)
)

// fieldErrors accumulates per-field validation messages.
type fieldErrors map[string]any

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return errorutil.NewValidationError("validation failed", f)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return email != "" && validate.Var(email, "email") == nil
}

func validPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

func validNationalID(id string) bool {
	return nationalIDPattern.MatchString(id)
}

// ValidNationalID reports whether id is exactly twelve digits.
func ValidNationalID(id string) bool {
	return validNationalID(id)
}

// ValidPhone reports whether phone is a ten-digit mobile number starting 6-9.
func ValidPhone(phone string) bool {
	return validPhone(phone)
}
