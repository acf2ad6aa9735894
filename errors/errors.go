package errors

import (
	stderrors "errors"
	"fmt"
)

// Application error types organized by category for better error handling

type ErrorType string

// Domain/Business Logic Errors - errors related to request validation and limits
const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	RateLimitError  ErrorType = "RATE_LIMIT_ERROR"
)

// Upstream Errors - failure modes of the external services this core calls.
// Every one of these is absorbed by a fallback provider before it can reach
// the end user.
const (
	UnconfiguredError   ErrorType = "UNCONFIGURED_ERROR"
	UnauthorizedError   ErrorType = "UNAUTHORIZED_ERROR"
	ThrottledError      ErrorType = "THROTTLED_ERROR"
	TimeoutError        ErrorType = "TIMEOUT_ERROR"
	UnreachableError    ErrorType = "UNREACHABLE_ERROR"
	InvalidPayloadError ErrorType = "INVALID_PAYLOAD_ERROR"
)

// System/Configuration Errors - errors related to system setup and configuration
const (
	ConfigurationError ErrorType = "CONFIGURATION_ERROR"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

func NewRateLimitError(message string) *AppError {
	return New(RateLimitError, message)
}

// Upstream Error Constructors
func NewUnconfiguredError(service string) *AppError {
	return New(UnconfiguredError, fmt.Sprintf("%s upstream is not configured", service))
}

func NewUnauthorizedError(service string) *AppError {
	return New(UnauthorizedError, fmt.Sprintf("%s upstream rejected credentials", service))
}

func NewThrottledError(service string) *AppError {
	return New(ThrottledError, fmt.Sprintf("%s upstream rate limit exceeded", service))
}

func NewTimeoutError(service string, cause error) *AppError {
	return Wrap(TimeoutError, fmt.Sprintf("%s upstream timed out", service), cause)
}

func NewUnreachableError(service string, cause error) *AppError {
	return Wrap(UnreachableError, fmt.Sprintf("%s upstream is unreachable", service), cause)
}

func NewInvalidPayloadError(service, detail string) *AppError {
	return New(InvalidPayloadError, fmt.Sprintf("%s upstream returned an invalid payload: %s", service, detail))
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

// IsUpstream reports whether err is one of the upstream failure kinds that a
// fallback provider is allowed to absorb. Validation and rate-limit errors
// must surface to the client and are never absorbed.
func IsUpstream(err error) bool {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		// Unknown errors out of an adapter are treated as upstream faults so
		// the user still gets a degraded response instead of a 5xx.
		return true
	}

	switch appErr.Type {
	case UnconfiguredError, UnauthorizedError, ThrottledError,
		TimeoutError, UnreachableError, InvalidPayloadError:
		return true
	default:
		return false
	}
}

// TypeOf extracts the ErrorType from err, or an empty string when err is not
// an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}
