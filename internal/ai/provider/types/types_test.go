package types

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTypeFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorType
	}{
		{400, ErrorTypeInvalidRequest},
		{401, ErrorTypeAuthentication},
		{403, ErrorTypeAuthentication},
		{404, ErrorTypeNotFound},
		{422, ErrorTypeInvalidRequest},
		{429, ErrorTypeRateLimit},
		{500, ErrorTypeAPI},
		{503, ErrorTypeOverloaded},
		{504, ErrorTypeTimeout},
		{529, ErrorTypeOverloaded},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorTypeFromStatus(tt.status))
		})
	}
}

func TestProviderError(t *testing.T) {
	err := NewStatusError("openai", 429, "slow down")
	assert.True(t, err.IsRateLimitError())
	assert.True(t, err.IsRetryable())
	assert.Contains(t, err.Error(), "Too Many Requests")

	auth := NewStatusError("openai", 401, "bad key")
	assert.False(t, auth.IsRetryable())

	timeout := NewProviderError("http", "request failed", fmt.Errorf("dial: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorTypeTimeout, timeout.Type)
	assert.True(t, errors.Is(timeout, context.DeadlineExceeded))

	var pe *ProviderError
	wrapped := fmt.Errorf("chunk 1: %w", NewMalformedError("http", "no text"))
	assert.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, ErrorTypeMalformed, pe.Type)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.Validate(true, false), ErrMissingAPIKey)
	assert.ErrorIs(t, cfg.Validate(false, true), ErrMissingBaseURL)

	assert.NoError(t, cfg.Validate(false, false))
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt("en", "es")
	assert.Contains(t, p, "from English to Spanish")
	assert.Contains(t, p, "Preserve the original formatting")
}
