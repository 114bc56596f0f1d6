package data

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/media/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

func newTestMedia(t *testing.T, handler http.HandlerFunc) *OpenAIMedia {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	m, err := NewOpenAIMedia(&types.Config{APIKey: "k", BaseURL: srv.URL + "/v1"}, "", "", logger.Nop())
	require.NoError(t, err)
	return m
}

func TestNewOpenAIMediaRequiresKey(t *testing.T) {
	_, err := NewOpenAIMedia(&types.Config{}, "", "", nil)
	assert.ErrorIs(t, err, types.ErrMissingAPIKey)
}

func TestTranscribe(t *testing.T) {
	m := newTestMedia(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, DefaultTranscriptionModel, r.FormValue("model"))
		assert.Equal(t, "de", r.FormValue("language"))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "clip.mp3", header.Filename)
		assert.Equal(t, "ID3audio", string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"task":"transcribe","language":"german","duration":2.5,"text":"Guten Tag"}`))
	})

	got, err := m.Transcribe(context.Background(), &biz.AudioInput{Filename: "clip.mp3", Data: []byte("ID3audio"), Language: "de"})
	require.NoError(t, err)
	assert.Equal(t, "Guten Tag", got.Text)
	assert.Equal(t, "german", got.Language)
	assert.Equal(t, 2.5, got.Duration)
}

func TestExtractText(t *testing.T) {
	m := newTestMedia(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL *struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultVisionModel, body.Model)
		require.Len(t, body.Messages, 1)
		require.Len(t, body.Messages[0].Content, 2)
		assert.Equal(t, "image_url", body.Messages[0].Content[1].Type)
		assert.True(t, strings.HasPrefix(body.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"STOP"}}]}`))
	})

	text, err := m.ExtractText(context.Background(), &biz.ImageInput{MIMEType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	assert.Equal(t, "STOP", text)
}

func TestMediaErrorsMapped(t *testing.T) {
	m := newTestMedia(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	})

	_, err := m.ExtractText(context.Background(), &biz.ImageInput{MIMEType: "image/png", Data: []byte("png")})
	var pe *types.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.ErrorTypeRateLimit, pe.Type)
	assert.True(t, pe.IsRateLimitError())
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Transcribe(context.Background(), &biz.AudioInput{})
	assert.ErrorIs(t, err, biz.ErrUnavailable)
	_, err = Disabled{}.ExtractText(context.Background(), &biz.ImageInput{})
	assert.ErrorIs(t, err, biz.ErrUnavailable)
}
