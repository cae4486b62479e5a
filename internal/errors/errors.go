// internal/errors/errors.go
package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies application errors so the API layer can map
// them to HTTP status codes without inspecting message strings.
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "validation_error"
	ErrorTypeUnavailable ErrorType = "unavailable"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeError       ErrorType = "processing_error"
)

// AppError is the application error structure carried across layers.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap supports errors.Is / errors.As chains.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError of the given type.
func NewAppError(errType ErrorType, message string, originalError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     originalError,
		Code:    generateErrorCode(errType),
	}
}

// NewValidationError reports invalid client input.
func NewValidationError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeValidation, message, originalError)
}

// NewUnavailableError reports an unreachable inference backend.
func NewUnavailableError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeUnavailable, message, originalError)
}

// NewTimeoutError reports an upstream call that exceeded its deadline.
func NewTimeoutError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeTimeout, message, originalError)
}

// NewProcessingError reports a malformed or failed upstream reply.
func NewProcessingError(message string, originalError error) *AppError {
	return NewAppError(ErrorTypeError, message, originalError)
}

// IsValidationError checks whether err is a validation error.
func IsValidationError(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsUnavailableError checks whether err is an unavailable error.
func IsUnavailableError(err error) bool {
	return isType(err, ErrorTypeUnavailable)
}

// IsTimeoutError checks whether err is a timeout error.
func IsTimeoutError(err error) bool {
	return isType(err, ErrorTypeTimeout)
}

func isType(err error, errType ErrorType) bool {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Type == errType
	}
	return false
}

// Message extracts the user-facing message from an error chain. Plain
// errors fall back to their Error() string.
func Message(err error) string {
	var appError *AppError
	if errors.As(err, &appError) {
		return appError.Message
	}
	return err.Error()
}

// generateErrorCode derives the user-friendly code from the error type.
func generateErrorCode(errType ErrorType) string {
	switch errType {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeUnavailable:
		return "BACKEND_UNAVAILABLE"
	case ErrorTypeTimeout:
		return "TIMEOUT"
	case ErrorTypeError:
		return "PROCESSING_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// WrapError wraps an existing error, preserving an AppError's type.
func WrapError(err error, message string, errType ErrorType) error {
	if err == nil {
		return nil
	}

	var appError *AppError
	if errors.As(err, &appError) {
		return &AppError{
			Type:    appError.Type,
			Message: fmt.Sprintf("%s: %s", message, appError.Message),
			Err:     appError,
			Code:    appError.Code,
		}
	}

	return NewAppError(errType, message, err)
}
