package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/exam-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrValidationFailed = errors.New("validation failed")

	// Identity errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrNoFieldsToUpdate   = errors.New("no fields to update")

	// Catalog errors
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSubjectExists    = errors.New("subject already exists")
	ErrQuestionNotFound = errors.New("question not found")
	ErrQuestionInUse    = errors.New("question is used by one or more tests")
	ErrUnsupportedFile  = errors.New("unsupported file format")

	// Test lifecycle errors
	ErrTestNotFound     = errors.New("test not found")
	ErrAttemptNotFound  = errors.New("attempt not found")
	ErrAlreadyAttempted = errors.New("test already attempted")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// InputError is a request rejected before touching the store. Message is
// safe to show to the client.
type InputError struct {
	Message string `json:"message"`
}

func (ie *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s", ie.Message)
}

func (ie *InputError) Unwrap() error {
	return ErrValidationFailed
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewInputError(message string) *InputError {
	return &InputError{Message: message}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrTestNotFound) ||
		errors.Is(err, ErrAttemptNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrEmailNotVerified)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrInvalidResetToken) ||
		errors.Is(err, ErrNoFieldsToUpdate) ||
		errors.Is(err, ErrUnsupportedFile) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrSubjectExists) ||
		errors.Is(err, ErrQuestionInUse) ||
		errors.Is(err, ErrAlreadyAttempted)
}
