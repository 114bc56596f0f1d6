// Package resilience 为翻译 Provider 提供熔断与限流装饰器
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig 熔断器配置
type BreakerConfig struct {
	MaxFailures uint32        // 连续失败次数达到该值时打开
	OpenTimeout time.Duration // 打开状态持续时间，之后进入半开
}

// Breaker 熔断装饰器：连续失败后直接拒绝请求，避免每个分片都等待超时
type Breaker struct {
	next   types.Provider
	cb     *gobreaker.CircuitBreaker
	logger *logger.Logger
}

// NewBreaker 包装 Provider
func NewBreaker(next types.Provider, cfg BreakerConfig, lgr *logger.Logger) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if lgr == nil {
		lgr = logger.L()
	}

	b := &Breaker{next: next, logger: lgr}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			lgr.Warn("translation circuit breaker state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		// 调用方取消与请求内容错误不算远程故障
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var pe *types.ProviderError
			if errors.As(err, &pe) {
				return pe.Type == types.ErrorTypeInvalidRequest
			}
			return false
		},
	})
	return b
}

// Name 返回被包装 Provider 的名称
func (b *Breaker) Name() string {
	return b.next.Name()
}

// Translate 经过熔断器调用下游 Provider
func (b *Breaker) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &types.ProviderError{
				Type:     types.ErrorTypeOpen,
				Provider: b.Name(),
				Message:  "circuit breaker rejected request",
				Err:      err,
			}
		}
		return nil, err
	}
	return out.(*types.TranslateResponse), nil
}

// State 返回熔断器当前状态
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Healthy 熔断器未打开即视为健康
func (b *Breaker) Healthy() bool {
	return b.cb.State() != gobreaker.StateOpen
}

// Close 关闭下游 Provider
func (b *Breaker) Close() error {
	return b.next.Close()
}
