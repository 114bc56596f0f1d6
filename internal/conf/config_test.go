package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4000, cfg.Translation.MaxChunkSize)
	assert.Equal(t, 5, cfg.Translation.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Translation.Timeout)
	assert.True(t, cfg.Translation.FallbackEnabled)
	assert.Equal(t, "fifo", cfg.Translation.Cache.Policy)
	assert.Equal(t, 100, cfg.Translation.Cache.Capacity)
	assert.Equal(t, 1000, cfg.Translation.Cache.MaxTextLength)
	assert.Equal(t, int64(5<<20), cfg.Media.MaxImageSize)
	assert.Equal(t, int64(10<<20), cfg.Document.MaxSize)
	assert.Equal(t, "translatedText", cfg.Translation.HTTP.ResponsePath)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Document.StripMarkdown)
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
translation:
  provider: http
  concurrency: 3
  timeout: 30s
  http:
    url: http://localhost:5000/translate
    headers:
      X-Api-Key: secret
  cache:
    policy: lru
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "http", cfg.Translation.Provider)
	assert.Equal(t, 3, cfg.Translation.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Translation.Timeout)
	assert.Equal(t, "lru", cfg.Translation.Cache.Policy)
	assert.Equal(t, "secret", cfg.Translation.HTTP.Headers["x-api-key"])
	// untouched keys keep their defaults
	assert.Equal(t, 4000, cfg.Translation.MaxChunkSize)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("TRANSLATOR_TRANSLATION_MODEL", "gpt-4.1")
	t.Setenv("TRANSLATOR_TRANSLATION_MAX_CHUNK_SIZE", "2000")
	t.Setenv("TRANSLATOR_DOCUMENT_STRIP_MARKDOWN", "true")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.True(t, cfg.Document.StripMarkdown)

	assert.Equal(t, "gpt-4.1", cfg.Translation.Model)
	assert.Equal(t, 2000, cfg.Translation.MaxChunkSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Translation.Provider = "babelfish" }},
		{"gemini without key", func(c *Config) { c.Translation.Provider = "gemini" }},
		{"http without url", func(c *Config) { c.Translation.Provider = "http" }},
		{"zero concurrency", func(c *Config) { c.Translation.Concurrency = 0 }},
		{"zero chunk size", func(c *Config) { c.Translation.MaxChunkSize = 0 }},
		{"unknown policy", func(c *Config) { c.Translation.Cache.Policy = "random" }},
		{"redis cache without redis", func(c *Config) { c.Translation.Cache.Backend = "redis" }},
		{"redis share without redis", func(c *Config) { c.Share.Backend = "redis" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")
	loader := NewLoader(path)
	_, err := loader.Load()
	require.NoError(t, err)

	reloaded := make(chan *Config, 4)
	loader.Watch(func(cfg *Config, err error) {
		if err == nil {
			reloaded <- cfg
		}
	})

	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: debug\n"), 0o644))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.Log.Level)
	case <-time.After(5 * time.Second):
		t.Skip("file watcher did not deliver an event in time")
	}
}
