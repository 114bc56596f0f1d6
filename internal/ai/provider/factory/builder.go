package factory

import (
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/conf"
)

// ConfigBuilder Provider 配置构建器（Builder 模式）
type ConfigBuilder struct {
	config types.Config
}

// NewConfig 创建配置构建器
func NewConfig() *ConfigBuilder {
	return &ConfigBuilder{
		config: types.Config{
			Timeout: types.DefaultTimeout,
			Headers: make(map[string]string),
		},
	}
}

// FromTranslation 以翻译配置为基础；http Provider 使用 http.url 作为地址
func FromTranslation(cfg conf.TranslationConfig) *ConfigBuilder {
	b := NewConfig().
		WithAPIKey(cfg.APIKey).
		WithModel(cfg.Model).
		WithTimeout(cfg.Timeout)

	if cfg.Provider == ProviderHTTP {
		return b.WithBaseURL(cfg.HTTP.URL).WithHeaders(cfg.HTTP.Headers)
	}
	return b.WithBaseURL(cfg.BaseURL)
}

// WithAPIKey 设置 API Key
func (b *ConfigBuilder) WithAPIKey(apiKey string) *ConfigBuilder {
	b.config.APIKey = apiKey
	return b
}

// WithBaseURL 设置 Base URL
func (b *ConfigBuilder) WithBaseURL(baseURL string) *ConfigBuilder {
	b.config.BaseURL = baseURL
	return b
}

// WithModel 设置默认模型
func (b *ConfigBuilder) WithModel(model string) *ConfigBuilder {
	b.config.Model = model
	return b
}

// WithTimeout 设置超时时间，非正数保持默认值
func (b *ConfigBuilder) WithTimeout(timeout time.Duration) *ConfigBuilder {
	if timeout > 0 {
		b.config.Timeout = timeout
	}
	return b
}

// WithHeaders 批量设置 Headers
func (b *ConfigBuilder) WithHeaders(headers map[string]string) *ConfigBuilder {
	for key, value := range headers {
		b.config.Headers[key] = value
	}
	return b
}

// Build 构建配置副本，Builder 可继续复用
func (b *ConfigBuilder) Build() *types.Config {
	cfg := b.config
	cfg.Headers = make(map[string]string, len(b.config.Headers))
	for key, value := range b.config.Headers {
		cfg.Headers[key] = value
	}
	return &cfg
}
