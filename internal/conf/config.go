package conf

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/redis"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/workerpool"
)

const envPrefix = "TRANSLATOR"

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Log         logger.Config     `mapstructure:"log"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Translation TranslationConfig `mapstructure:"translation"`
	Media       MediaConfig       `mapstructure:"media"`
	Document    DocumentConfig    `mapstructure:"document"`
	Share       ShareConfig       `mapstructure:"share"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RedisConfig wraps the client config with an on/off switch so the
// service runs without Redis by default.
type RedisConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	redis.Config `mapstructure:",squash"`
}

type TranslationConfig struct {
	Provider        string          `mapstructure:"provider"` // openai, gemini, http, offline
	APIKey          string          `mapstructure:"api_key"`
	BaseURL         string          `mapstructure:"base_url"`
	Model           string          `mapstructure:"model"`
	Timeout         time.Duration   `mapstructure:"timeout"`
	MaxChunkSize    int             `mapstructure:"max_chunk_size"`
	Concurrency     int             `mapstructure:"concurrency"`
	FallbackEnabled bool            `mapstructure:"fallback_enabled"`
	TokenEncoding   string          `mapstructure:"token_encoding"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
	Breaker         BreakerConfig   `mapstructure:"breaker"`
	Cache           CacheConfig     `mapstructure:"cache"`
	HTTP            HTTPEndpoint    `mapstructure:"http"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"` // 0 disables limiting
	Burst int     `mapstructure:"burst"`
}

type BreakerConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

type CacheConfig struct {
	Backend       string `mapstructure:"backend"` // memory, redis
	Policy        string `mapstructure:"policy"`  // fifo, lru
	Capacity      int    `mapstructure:"capacity"`
	MaxTextLength int    `mapstructure:"max_text_length"`
	Prefix        string `mapstructure:"prefix"`
}

type HTTPEndpoint struct {
	URL          string            `mapstructure:"url"`
	ResponsePath string            `mapstructure:"response_path"`
	Headers      map[string]string `mapstructure:"headers"`
}

type MediaConfig struct {
	APIKey             string        `mapstructure:"api_key"`
	BaseURL            string        `mapstructure:"base_url"`
	TranscriptionModel string        `mapstructure:"transcription_model"`
	VisionModel        string        `mapstructure:"vision_model"`
	Timeout            time.Duration `mapstructure:"timeout"`
	MaxImageSize       int64         `mapstructure:"max_image_size"`
	MaxAudioSize       int64         `mapstructure:"max_audio_size"`
}

type DocumentConfig struct {
	MaxSize             int64             `mapstructure:"max_size"`
	Pool                workerpool.Config `mapstructure:"pool"`
	UnidocLicenseKey    string            `mapstructure:"unidoc_license_key"`
	OperationBufferSize int               `mapstructure:"operation_buffer_size"`
	StripMarkdown       bool              `mapstructure:"strip_markdown"` // 翻译前去掉 Markdown 标记
}

type ShareConfig struct {
	Backend    string        `mapstructure:"backend"` // memory, redis
	BaseURL    string        `mapstructure:"base_url"`
	TTL        time.Duration `mapstructure:"ttl"`
	QRCodeSize int           `mapstructure:"qrcode_size"`
	Prefix     string        `mapstructure:"prefix"`
}

// Loader reads the YAML config file and TRANSLATOR_* environment overrides.
type Loader struct {
	v    *viper.Viper
	path string
}

func NewLoader(path string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	}

	return &Loader{v: v, path: path}
}

// Load reads and validates the configuration. An empty path uses defaults
// and environment variables only.
func (l *Loader) Load() (*Config, error) {
	if l.path != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Watch reloads the file on every write and hands the result to fn.
// Reload errors are passed through so the caller can keep the old config.
func (l *Loader) Watch(fn func(*Config, error)) {
	if l.path == "" {
		return
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		var config Config
		if err := l.v.Unmarshal(&config); err != nil {
			fn(nil, fmt.Errorf("failed to unmarshal config: %w", err))
			return
		}
		if err := config.Validate(); err != nil {
			fn(nil, fmt.Errorf("invalid config: %w", err))
			return
		}
		fn(&config, nil)
	})
	l.v.WatchConfig()
}

// LoadConfig is a shorthand for NewLoader(path).Load().
func LoadConfig(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Default returns the configuration built from defaults only.
func Default() *Config {
	config, err := NewLoader("").Load()
	if err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	logDefaults := logger.DefaultConfig()
	v.SetDefault("log.level", logDefaults.Level)
	v.SetDefault("log.format", logDefaults.Format)
	v.SetDefault("log.output", logDefaults.Output)
	v.SetDefault("log.enablecaller", logDefaults.EnableCaller)
	v.SetDefault("log.enablestacktrace", logDefaults.EnableStacktrace)
	v.SetDefault("log.file.filename", logDefaults.File.Filename)
	v.SetDefault("log.file.maxsize", logDefaults.File.MaxSize)
	v.SetDefault("log.file.maxage", logDefaults.File.MaxAge)
	v.SetDefault("log.file.maxbackups", logDefaults.File.MaxBackups)
	v.SetDefault("log.file.compress", logDefaults.File.Compress)

	redisDefaults := redis.DefaultConfig()
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.mode", string(redisDefaults.Mode))
	v.SetDefault("redis.addr", redisDefaults.Addr)
	v.SetDefault("redis.master_name", "")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", redisDefaults.DB)
	v.SetDefault("redis.pool_size", redisDefaults.PoolSize)
	v.SetDefault("redis.min_idle_conns", redisDefaults.MinIdleConns)
	v.SetDefault("redis.dial_timeout", redisDefaults.DialTimeout)
	v.SetDefault("redis.read_timeout", redisDefaults.ReadTimeout)
	v.SetDefault("redis.write_timeout", redisDefaults.WriteTimeout)
	v.SetDefault("redis.pool_timeout", redisDefaults.PoolTimeout)
	v.SetDefault("redis.max_retries", redisDefaults.MaxRetries)

	v.SetDefault("translation.provider", "openai")
	v.SetDefault("translation.api_key", "")
	v.SetDefault("translation.base_url", "")
	v.SetDefault("translation.model", "gpt-4o-mini")
	v.SetDefault("translation.timeout", 45*time.Second)
	v.SetDefault("translation.max_chunk_size", 4000)
	v.SetDefault("translation.concurrency", 5)
	v.SetDefault("translation.fallback_enabled", true)
	v.SetDefault("translation.token_encoding", "")
	v.SetDefault("translation.rate_limit.rps", 0)
	v.SetDefault("translation.rate_limit.burst", 5)
	v.SetDefault("translation.breaker.enabled", true)
	v.SetDefault("translation.breaker.max_failures", 5)
	v.SetDefault("translation.breaker.open_timeout", 30*time.Second)
	v.SetDefault("translation.cache.backend", "memory")
	v.SetDefault("translation.cache.policy", "fifo")
	v.SetDefault("translation.cache.capacity", 100)
	v.SetDefault("translation.cache.max_text_length", 1000)
	v.SetDefault("translation.cache.prefix", "translator:cache:")
	v.SetDefault("translation.http.url", "")
	v.SetDefault("translation.http.response_path", "translatedText")

	v.SetDefault("media.api_key", "")
	v.SetDefault("media.base_url", "")
	v.SetDefault("media.transcription_model", "whisper-1")
	v.SetDefault("media.vision_model", "gpt-4o-mini")
	v.SetDefault("media.timeout", 60*time.Second)
	v.SetDefault("media.max_image_size", 5<<20)
	v.SetDefault("media.max_audio_size", 10<<20)

	poolDefaults := workerpool.DefaultConfig()
	v.SetDefault("document.max_size", 10<<20)
	v.SetDefault("document.pool.workers", poolDefaults.Workers)
	v.SetDefault("document.pool.max_blocking_tasks", poolDefaults.MaxBlockingTasks)
	v.SetDefault("document.pool.nonblocking", true)
	v.SetDefault("document.pool.expiry_duration", poolDefaults.ExpiryDuration)
	v.SetDefault("document.unidoc_license_key", "")
	v.SetDefault("document.operation_buffer_size", 128)
	v.SetDefault("document.strip_markdown", false)

	v.SetDefault("share.backend", "memory")
	v.SetDefault("share.base_url", "http://localhost:8080")
	v.SetDefault("share.ttl", 7*24*time.Hour)
	v.SetDefault("share.qrcode_size", 256)
	v.SetDefault("share.prefix", "translator:share:")
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if c.Redis.Enabled {
		if err := c.Redis.Config.Validate(); err != nil {
			return err
		}
	}

	t := c.Translation
	switch t.Provider {
	case "openai", "offline":
	case "gemini":
		if t.APIKey == "" {
			return errors.New("translation.api_key is required for the gemini provider")
		}
	case "http":
		if t.HTTP.URL == "" {
			return errors.New("translation.http.url is required for the http provider")
		}
	default:
		return fmt.Errorf("unknown translation.provider %q", t.Provider)
	}
	if t.Timeout <= 0 {
		return errors.New("translation.timeout must be > 0")
	}
	if t.MaxChunkSize <= 0 {
		return errors.New("translation.max_chunk_size must be > 0")
	}
	if t.Concurrency <= 0 {
		return errors.New("translation.concurrency must be > 0")
	}
	if t.RateLimit.RPS < 0 {
		return errors.New("translation.rate_limit.rps must be >= 0")
	}

	switch t.Cache.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("translation.cache.backend=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown translation.cache.backend %q", t.Cache.Backend)
	}
	if t.Cache.Policy != "fifo" && t.Cache.Policy != "lru" {
		return fmt.Errorf("unknown translation.cache.policy %q", t.Cache.Policy)
	}
	if t.Cache.Capacity <= 0 {
		return errors.New("translation.cache.capacity must be > 0")
	}

	if c.Document.MaxSize <= 0 {
		return errors.New("document.max_size must be > 0")
	}
	if c.Media.MaxImageSize <= 0 || c.Media.MaxAudioSize <= 0 {
		return errors.New("media size limits must be > 0")
	}

	switch c.Share.Backend {
	case "memory":
	case "redis":
		if !c.Redis.Enabled {
			return errors.New("share.backend=redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown share.backend %q", c.Share.Backend)
	}
	if c.Share.TTL <= 0 {
		return errors.New("share.ttl must be > 0")
	}

	return nil
}

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// GRPCAddr returns the gRPC listen address.
func (s ServerConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.GRPCPort)
}
