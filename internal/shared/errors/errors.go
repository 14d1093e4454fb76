// Package errors provides application-level error types and utilities.
// It defines common error types like validation, not found, conflict, and
// payment-specific errors surfaced by the billing engine.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation          ErrorType = "validation_error"
	ErrorTypeNotFound            ErrorType = "not_found"
	ErrorTypeConflict            ErrorType = "conflict"
	ErrorTypeBadRequest          ErrorType = "bad_request"
	ErrorTypeInternal            ErrorType = "internal_error"
	ErrorTypePriceNotFound       ErrorType = "price_not_found"
	ErrorTypeInvalidSignature    ErrorType = "invalid_signature"
	ErrorTypeUnsupportedProvider ErrorType = "unsupported_provider"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(errType ErrorType, code int, message string, details ...string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details...)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, message, details...)
}

// NewConflictError creates a new conflict error
func NewConflictError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, message, details...)
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeBadRequest, http.StatusBadRequest, message, details...)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details...)
}

// NewPriceNotFoundError creates an error for a plan that has no price in the
// requested currency. Order creation must be rejected with this error.
func NewPriceNotFoundError(planKey, currency string) *AppError {
	return newAppError(ErrorTypePriceNotFound, http.StatusUnprocessableEntity,
		"plan has no price in requested currency",
		fmt.Sprintf("plan=%s currency=%s", planKey, currency))
}

// NewInvalidSignatureError creates an error for a webhook whose signature
// did not verify. Callers must treat this as an unauthenticated callback
// and take no state-changing action.
func NewInvalidSignatureError(provider string) *AppError {
	return newAppError(ErrorTypeInvalidSignature, http.StatusBadRequest,
		"webhook signature verification failed", "provider="+provider)
}

// NewUnsupportedProviderError creates an error for an unknown payment
// gateway name. This is a configuration error.
func NewUnsupportedProviderError(provider string) *AppError {
	return newAppError(ErrorTypeUnsupportedProvider, http.StatusBadRequest,
		"unknown payment provider", "provider="+provider)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeNotFound
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeValidation
}

// IsPriceNotFoundError checks if the error is a price not found error
func IsPriceNotFoundError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypePriceNotFound
}

// IsInvalidSignatureError checks if the error is an invalid signature error
func IsInvalidSignatureError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeInvalidSignature
}

// IsUnsupportedProviderError checks if the error is an unsupported provider error
func IsUnsupportedProviderError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeUnsupportedProvider
}

// IsDuplicateError checks if the error is a database duplicate key error
func IsDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	// MySQL duplicate entry error
	if strings.Contains(errStr, "Duplicate entry") || strings.Contains(errStr, "duplicate key") {
		return true
	}
	// PostgreSQL unique violation
	if strings.Contains(errStr, "unique constraint") || strings.Contains(errStr, "violates unique constraint") {
		return true
	}
	return false
}
