package biz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(ep Endpoint, c cache.Cache, fallbackEnabled bool) *Client {
	return NewClient(ep, c, stubFallback{}, ClientConfig{
		Timeout:         time.Second,
		Model:           "m",
		FallbackEnabled: fallbackEnabled,
	}, logger.Nop())
}

func TestClientIdentityShortCircuit(t *testing.T) {
	ep := &stubEndpoint{}
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(ep, mc, true)

	res, err := c.Translate(context.Background(), &TranslateRequest{Text: "Hello", Source: "en", Target: "en"})
	require.NoError(t, err)
	assert.Equal(t, "Hello", res.TranslatedText)
	assert.False(t, res.UsedFallback)
	assert.Equal(t, int32(0), ep.calls.Load())
	assert.Equal(t, 0, mc.Len())
}

func TestClientCachesShortText(t *testing.T) {
	ep := &stubEndpoint{}
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(ep, mc, true)
	req := &TranslateRequest{Text: "hello", Source: "en", Target: "es"}

	first, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", first.TranslatedText)
	assert.False(t, first.Cached)

	second, err := c.Translate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "HELLO", second.TranslatedText)
	assert.True(t, second.Cached)
	assert.Equal(t, int32(1), ep.calls.Load())
}

func TestClientSkipsCacheForLongText(t *testing.T) {
	ep := &stubEndpoint{}
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(ep, mc, true)
	req := &TranslateRequest{Text: strings.Repeat("a", cache.DefaultMaxTextLength), Source: "en", Target: "es"}

	for i := 0; i < 2; i++ {
		_, err := c.Translate(context.Background(), req)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), ep.calls.Load())
	assert.Equal(t, 0, mc.Len())
}

func TestClientFallbackOnRemoteFailure(t *testing.T) {
	ep := &stubEndpoint{fn: failing(500)}
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(ep, mc, true)

	res, err := c.Translate(context.Background(), &TranslateRequest{Text: "hello", Source: "en", Target: "es"})
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
	assert.Equal(t, "[fb] hello", res.TranslatedText)
	assert.Equal(t, 0, mc.Len(), "fallback output must not be cached")
}

func TestClientStrictModePropagates(t *testing.T) {
	ep := &stubEndpoint{fn: failing(503)}
	c := newTestClient(ep, nil, false)

	_, err := c.Translate(context.Background(), &TranslateRequest{Text: "hello", Source: "en", Target: "es"})
	var pe *types.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 503, pe.StatusCode)
}

func TestClientTimeoutFallsBack(t *testing.T) {
	ep := &stubEndpoint{fn: func(ctx context.Context, _ *types.TranslateRequest) (*types.TranslateResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	c := NewClient(ep, nil, stubFallback{}, ClientConfig{Timeout: 20 * time.Millisecond, FallbackEnabled: true}, logger.Nop())

	res, err := c.Translate(context.Background(), &TranslateRequest{Text: "hello", Source: "en", Target: "es"})
	require.NoError(t, err)
	assert.True(t, res.UsedFallback)
}

func TestClientCallerCancellationIsNotFallback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ep := &stubEndpoint{fn: func(ctx context.Context, _ *types.TranslateRequest) (*types.TranslateResponse, error) {
		cancel()
		return nil, ctx.Err()
	}}
	c := newTestClient(ep, nil, true)

	_, err := c.Translate(ctx, &TranslateRequest{Text: "hello", Source: "en", Target: "es"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.Translate(ctx, &TranslateRequest{Text: "again", Source: "en", Target: "es"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(1), ep.calls.Load())
}

func TestClientModelInCacheKey(t *testing.T) {
	ep := &stubEndpoint{}
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(ep, mc, true)

	_, _ = c.Translate(context.Background(), &TranslateRequest{Text: "hi", Source: "en", Target: "es", Model: "a"})
	_, _ = c.Translate(context.Background(), &TranslateRequest{Text: "hi", Source: "en", Target: "es", Model: "b"})
	_, _ = c.Translate(context.Background(), &TranslateRequest{Text: "hi", Source: "en", Target: "es", Model: "a"})
	assert.Equal(t, int32(2), ep.calls.Load())
}

// trimmingEndpoint 模拟会去掉首尾空白的模型回复
func trimmingEndpoint() *stubEndpoint {
	return &stubEndpoint{fn: func(_ context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
		return &types.TranslateResponse{TranslatedText: strings.TrimSpace(strings.ToUpper(req.Text))}, nil
	}}
}

func TestClientRestoresEdgeWhitespace(t *testing.T) {
	mc := cache.NewMemoryCache(10, cache.PolicyFIFO)
	c := newTestClient(trimmingEndpoint(), mc, true)

	cases := map[string]string{
		"One two. ":        "ONE TWO. ",
		"  indented\n":     "  INDENTED\n",
		"\tboth sides \n ": "\tBOTH SIDES \n ",
		"none":             "NONE",
	}
	for in, want := range cases {
		res, err := c.Translate(context.Background(), &TranslateRequest{Text: in, Source: "en", Target: "es"})
		require.NoError(t, err)
		assert.Equal(t, want, res.TranslatedText, "input %q", in)
	}

	res, err := c.Translate(context.Background(), &TranslateRequest{Text: "One two. ", Source: "en", Target: "es"})
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, "ONE TWO. ", res.TranslatedText)
}

func TestClientSendsResolvedModel(t *testing.T) {
	var models []string
	ep := &stubEndpoint{fn: func(_ context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
		models = append(models, req.Model)
		return &types.TranslateResponse{TranslatedText: req.Text}, nil
	}}
	c := newTestClient(ep, nil, true)

	_, err := c.Translate(context.Background(), &TranslateRequest{Text: "hi", Source: "en", Target: "es"})
	require.NoError(t, err)
	_, err = c.Translate(context.Background(), &TranslateRequest{Text: "hi", Source: "en", Target: "es", Model: "x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "x"}, models)
}
