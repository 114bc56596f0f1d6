package gemini

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := New(context.Background(), &types.Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	}, logger.Nop())
	require.NoError(t, err)
	return p
}

func TestTranslate(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/"+DefaultModel+":generateContent"), r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), "Guten Morgen")
		assert.Contains(t, string(body), "from German to English")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Good morning"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 20, "candidatesTokenCount": 3}
		}`))
	})

	resp, err := p.Translate(context.Background(), &types.TranslateRequest{Text: "Guten Morgen", Source: "de", Target: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Good morning", resp.TranslatedText)
	assert.Equal(t, 20, resp.PromptTokens)
	assert.Equal(t, 3, resp.CompletionTokens)
}

func TestTranslateServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"code": 503, "message": "overloaded", "status": "UNAVAILABLE"}}`))
	})

	_, err := p.Translate(context.Background(), &types.TranslateRequest{Text: "Hallo", Source: "de", Target: "en"})
	var pe *types.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.ErrorTypeOverloaded, pe.Type)
	assert.True(t, pe.IsRetryable())
}

func TestTranslateEmptyCandidates(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})

	_, err := p.Translate(context.Background(), &types.TranslateRequest{Text: "Hallo", Source: "de", Target: "en"})
	assert.ErrorIs(t, err, types.ErrEmptyResponse)
}
