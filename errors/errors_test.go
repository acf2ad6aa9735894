package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewValidationError("message cannot be empty")
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
	assert.Contains(t, err.Error(), "message cannot be empty")

	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := NewUnreachableError("weather", cause)
	assert.Contains(t, wrapped.Error(), "caused by")
	assert.Equal(t, cause, wrapped.Unwrap())
}

func TestIsUpstream(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		upstream bool
	}{
		{"Unconfigured", NewUnconfiguredError("weather"), true},
		{"Unauthorized", NewUnauthorizedError("news"), true},
		{"Throttled", NewThrottledError("chat"), true},
		{"Timeout", NewTimeoutError("vision", nil), true},
		{"Unreachable", NewUnreachableError("weather", nil), true},
		{"InvalidPayload", NewInvalidPayloadError("news", "bad json"), true},
		{"Validation", NewValidationError("bad input"), false},
		{"RateLimit", NewRateLimitError("limit reached"), false},
		{"Configuration", NewConfigurationError("bad config", nil), false},
		{"UnknownError", fmt.Errorf("something unexpected"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.upstream, IsUpstream(tt.err))
		})
	}
}

func TestIsUpstreamWrappedError(t *testing.T) {
	// An AppError wrapped by fmt.Errorf is still recognized through errors.As.
	wrapped := fmt.Errorf("fetch headlines: %w", NewThrottledError("news"))
	assert.True(t, IsUpstream(wrapped))

	wrappedValidation := fmt.Errorf("handle request: %w", NewValidationError("bad"))
	assert.False(t, IsUpstream(wrappedValidation))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TimeoutError, TypeOf(NewTimeoutError("weather", nil)))
	assert.Equal(t, ValidationError, TypeOf(fmt.Errorf("wrap: %w", NewValidationError("bad"))))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain error")))
}
