package server

import (
	"context"
	"time"

	pkgredis "github.com/lk2023060901/ai-translator-backend/internal/pkg/redis"
)

// 健康状态
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// healthReporter 由带熔断器的 Provider 实现
type healthReporter interface {
	Healthy() bool
}

// HealthStatus 健康检查结果
type HealthStatus struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Provider string `json:"provider"`
	Redis    string `json:"redis,omitempty"`
}

// Health 汇总翻译端点与 Redis 的健康状态
type Health struct {
	provider interface{}
	redis    *pkgredis.Client
	timeout  time.Duration
}

// NewHealth provider 未实现 Healthy() 时视为健康；redis 可为 nil
func NewHealth(provider interface{}, redis *pkgredis.Client) *Health {
	return &Health{
		provider: provider,
		redis:    redis,
		timeout:  time.Second,
	}
}

// Check 执行一次健康检查
func (h *Health) Check(ctx context.Context) HealthStatus {
	st := HealthStatus{
		Status:   StatusOK,
		Time:     time.Now().Format(time.RFC3339),
		Provider: StatusOK,
	}

	if r, ok := h.provider.(healthReporter); ok && !r.Healthy() {
		st.Provider = "circuit_open"
		st.Status = StatusDegraded
	}

	if h.redis != nil {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		defer cancel()
		st.Redis = StatusOK
		if err := h.redis.Ping(ctx); err != nil {
			st.Redis = "unreachable"
			st.Status = StatusDegraded
		}
	}

	return st
}
