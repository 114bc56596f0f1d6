package types

import (
	"errors"
	"time"
)

var (
	ErrMissingAPIKey  = errors.New("API key is required")
	ErrMissingBaseURL = errors.New("base URL is required")
)

// DefaultTimeout 单次请求默认超时
const DefaultTimeout = 45 * time.Second

// Config Provider 通用配置
type Config struct {
	APIKey  string            // API Key
	BaseURL string            // API 基础 URL（为空时使用官方地址）
	Timeout time.Duration     // 请求超时
	Model   string            // 默认模型
	Headers map[string]string // 自定义 HTTP Headers
}

// Validate 验证配置并补全默认值
func (c *Config) Validate(requireAPIKey, requireBaseURL bool) error {
	if requireAPIKey && c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if requireBaseURL && c.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}
