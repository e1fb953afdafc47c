package errorutil

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes returned to API clients.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeDuplicateNationalID = "DUPLICATE_NATIONAL_ID"
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidCode         = "INVALID_CODE"
	CodeAlreadyVerified     = "ALREADY_VERIFIED"
	CodeEmailNotVerified    = "EMAIL_NOT_VERIFIED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeConflict            = "CONFLICT"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewDuplicateEmail() error {
	return NewDomainError(CodeDuplicateEmail, "email already registered", http.StatusBadRequest, nil)
}

func NewDuplicateNationalID() error {
	return NewDomainError(CodeDuplicateNationalID, "national ID already registered", http.StatusBadRequest, nil)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

// NewInvalidCode covers missing, mismatched and expired one-time codes alike.
func NewInvalidCode() error {
	return NewDomainError(CodeInvalidCode, "invalid or expired code", http.StatusBadRequest, nil)
}

func NewAlreadyVerified(message string) error {
	return NewDomainError(CodeAlreadyVerified, message, http.StatusBadRequest, nil)
}

func NewEmailNotVerified() error {
	return NewDomainError(CodeEmailNotVerified, "email not verified", http.StatusUnauthorized, nil)
}

func NewInvalidCredentials() error {
	return NewDomainError(CodeInvalidCredentials, "invalid credentials", http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// HasCode reports whether err is a DomainError carrying code.
func HasCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ToDomainError converts generic errors to DomainError. Errors that are not
// already classified become INTERNAL_ERROR so their text never reaches clients.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
