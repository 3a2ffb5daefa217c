// Package apperrors defines the failure categories surfaced by the receipt
// pipeline and its front-ends.
//
// Every failure is an *AppError carrying a Type. Callers distinguish the
// categories with errors.Is against the exported sentinels:
//
//	if errors.Is(err, apperrors.ErrInvalidImage) { ... }
//
// A sentinel matches any AppError of the same Type, regardless of message or
// cause, so wrapped errors keep their category through fmt.Errorf("%w").
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeMissingInput       ErrorType = "missing_input"
	ErrorTypeInvalidImage       ErrorType = "invalid_image"
	ErrorTypeDegenerateGeometry ErrorType = "degenerate_geometry"
	ErrorTypeInvalidConfig      ErrorType = "invalid_config"
	ErrorTypeInternal           ErrorType = "internal"
)

// Sentinels for errors.Is.
var (
	ErrMissingInput       = &AppError{Type: ErrorTypeMissingInput, Message: "no image supplied"}
	ErrInvalidImage       = &AppError{Type: ErrorTypeInvalidImage, Message: "image could not be decoded"}
	ErrDegenerateGeometry = &AppError{Type: ErrorTypeDegenerateGeometry, Message: "degenerate geometry"}
	ErrInvalidConfig      = &AppError{Type: ErrorTypeInvalidConfig, Message: "invalid configuration"}
	ErrInternal           = &AppError{Type: ErrorTypeInternal, Message: "internal error"}
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewMissingInputError creates an error for an absent or empty payload.
func NewMissingInputError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeMissingInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewInvalidImageError creates an error for payloads that are not a decodable pixel grid.
func NewInvalidImageError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidImage,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewDegenerateGeometryError creates an error for zero or negative computed sizes.
func NewDegenerateGeometryError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeDegenerateGeometry,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Cause:      cause,
	}
}

// NewInvalidConfigError creates an error for rejected configuration values.
func NewInvalidConfigError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalidConfig,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.StatusCode != 0 {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
