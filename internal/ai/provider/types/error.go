package types

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType 远程翻译错误类型
type ErrorType string

const (
	// 4xx 客户端错误
	ErrorTypeInvalidRequest ErrorType = "invalid_request_error" // 400 - 请求格式或内容错误
	ErrorTypeAuthentication ErrorType = "authentication_error"  // 401/403 - API Key 问题
	ErrorTypeNotFound       ErrorType = "not_found_error"       // 404 - 模型或地址不存在
	ErrorTypeRateLimit      ErrorType = "rate_limit_error"      // 429 - 达到速率限制

	// 5xx 服务器错误
	ErrorTypeAPI        ErrorType = "api_error"        // 500 - 内部服务器错误
	ErrorTypeOverloaded ErrorType = "overloaded_error" // 502/503/529 - 临时过载

	// 非 HTTP 错误
	ErrorTypeTimeout   ErrorType = "timeout_error"   // 请求超时
	ErrorTypeMalformed ErrorType = "malformed_error" // 响应无法解析
	ErrorTypeNetwork   ErrorType = "network_error"   // 连接失败
	ErrorTypeOpen      ErrorType = "circuit_open"    // 熔断器打开
)

// ProviderError Provider 错误
type ProviderError struct {
	Type       ErrorType // 错误类型
	Provider   string    // Provider 名称
	StatusCode int       // HTTP 状态码（非 HTTP 错误为 0）
	Message    string    // 错误消息
	RequestID  string    // 请求 ID（用于追踪）
	Err        error     // 原始错误
}

func (e *ProviderError) Error() string {
	status := ""
	if e.StatusCode != 0 {
		status = "[" + httpStatusText(e.StatusCode) + "]"
	}

	msg := fmt.Sprintf("[%s][%s]%s %s", e.Provider, e.Type, status, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.RequestID != "" {
		msg += " (request_id: " + e.RequestID + ")"
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsRateLimitError 判断是否为速率限制错误
func (e *ProviderError) IsRateLimitError() bool {
	return e.Type == ErrorTypeRateLimit
}

// IsRetryable 判断错误是否可重试
func (e *ProviderError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeAPI, ErrorTypeOverloaded, ErrorTypeTimeout, ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// NewProviderError 创建 Provider 错误
func NewProviderError(provider, message string, err error) *ProviderError {
	t := ErrorTypeNetwork
	if errors.Is(err, context.DeadlineExceeded) {
		t = ErrorTypeTimeout
	}
	return &ProviderError{
		Type:     t,
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}

// NewStatusError 根据 HTTP 状态码创建 Provider 错误
func NewStatusError(provider string, status int, message string) *ProviderError {
	return &ProviderError{
		Type:       ErrorTypeFromStatus(status),
		Provider:   provider,
		StatusCode: status,
		Message:    message,
	}
}

// NewMalformedError 创建响应格式错误
func NewMalformedError(provider, message string) *ProviderError {
	return &ProviderError{
		Type:     ErrorTypeMalformed,
		Provider: provider,
		Message:  message,
	}
}

// ErrorTypeFromStatus 将 HTTP 状态码映射为错误类型
func ErrorTypeFromStatus(status int) ErrorType {
	switch {
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge:
		return ErrorTypeInvalidRequest
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return ErrorTypeAuthentication
	case status == http.StatusNotFound:
		return ErrorTypeNotFound
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status == http.StatusBadGateway, status == http.StatusServiceUnavailable, status == 529:
		return ErrorTypeOverloaded
	case status == http.StatusGatewayTimeout:
		return ErrorTypeTimeout
	case status >= 400 && status < 500:
		return ErrorTypeInvalidRequest
	default:
		return ErrorTypeAPI
	}
}

// httpStatusText 返回 HTTP 状态码文本
func httpStatusText(code int) string {
	if code == 529 {
		return "Service Overloaded"
	}
	if text := http.StatusText(code); text != "" {
		return text
	}
	return fmt.Sprintf("Status %d", code)
}

// 预定义错误
var (
	ErrEmptyResponse = errors.New("empty translation response")
	ErrOffline       = errors.New("remote translation disabled")
)
