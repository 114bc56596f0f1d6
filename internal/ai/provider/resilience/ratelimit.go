package resilience

import (
	"context"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"golang.org/x/time/rate"
)

// RateLimited 令牌桶限流装饰器，所有并发分片共享同一个桶
type RateLimited struct {
	next    types.Provider
	limiter *rate.Limiter
}

// NewRateLimited 包装 Provider；rps <= 0 时直接返回原 Provider
func NewRateLimited(next types.Provider, rps float64, burst int) types.Provider {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Name 返回被包装 Provider 的名称
func (r *RateLimited) Name() string {
	return r.next.Name()
}

// Translate 等待令牌后调用下游 Provider
func (r *RateLimited) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &types.ProviderError{
			Type:     types.ErrorTypeRateLimit,
			Provider: r.Name(),
			Message:  "local rate limit wait failed",
			Err:      err,
		}
	}
	return r.next.Translate(ctx, req)
}

// Close 关闭下游 Provider
func (r *RateLimited) Close() error {
	return r.next.Close()
}

// Healthy 透传下游熔断器健康状态
func (r *RateLimited) Healthy() bool {
	if h, ok := r.next.(interface{ Healthy() bool }); ok {
		return h.Healthy()
	}
	return true
}
