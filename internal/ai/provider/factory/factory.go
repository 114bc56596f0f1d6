// Package factory 根据配置创建并装饰翻译 Provider
package factory

import (
	"context"
	"fmt"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/gemini"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/httpjson"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/openai"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/resilience"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

const (
	ProviderOpenAI  = openai.Name
	ProviderGemini  = gemini.Name
	ProviderHTTP    = httpjson.Name
	ProviderOffline = "offline"
)

type constructor func(ctx context.Context, cfg conf.TranslationConfig, lgr *logger.Logger) (types.Provider, error)

var constructors = map[string]constructor{
	ProviderOpenAI: func(_ context.Context, cfg conf.TranslationConfig, lgr *logger.Logger) (types.Provider, error) {
		return openai.New(FromTranslation(cfg).Build(), lgr)
	},
	ProviderGemini: func(ctx context.Context, cfg conf.TranslationConfig, lgr *logger.Logger) (types.Provider, error) {
		return gemini.New(ctx, FromTranslation(cfg).Build(), lgr)
	},
	ProviderHTTP: func(_ context.Context, cfg conf.TranslationConfig, lgr *logger.Logger) (types.Provider, error) {
		return httpjson.New(FromTranslation(cfg).Build(), cfg.HTTP.ResponsePath, lgr)
	},
	ProviderOffline: func(context.Context, conf.TranslationConfig, *logger.Logger) (types.Provider, error) {
		return Offline{}, nil
	},
}

// IsKnown 判断 Provider 名称是否受支持
func IsKnown(name string) bool {
	_, ok := constructors[name]
	return ok
}

// New 创建 Provider 并按配置包装熔断与限流
func New(ctx context.Context, cfg conf.TranslationConfig, lgr *logger.Logger) (types.Provider, error) {
	if lgr == nil {
		lgr = logger.L()
	}

	build, ok := constructors[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown translation provider: %q", cfg.Provider)
	}

	p, err := build(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", cfg.Provider, err)
	}
	if cfg.Provider == ProviderOffline {
		return p, nil
	}

	if cfg.Breaker.Enabled {
		p = resilience.NewBreaker(p, resilience.BreakerConfig{
			MaxFailures: cfg.Breaker.MaxFailures,
			OpenTimeout: cfg.Breaker.OpenTimeout,
		}, lgr)
	}
	p = resilience.NewRateLimited(p, cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	lgr.Info("translation provider ready",
		zap.String("provider", p.Name()),
		zap.Bool("breaker", cfg.Breaker.Enabled),
		zap.Float64("rps", cfg.RateLimit.RPS))

	return p, nil
}

// Offline 始终拒绝远程调用，使所有请求走离线兜底
type Offline struct{}

func (Offline) Name() string { return ProviderOffline }
func (Offline) Close() error { return nil }

func (Offline) Translate(context.Context, *types.TranslateRequest) (*types.TranslateResponse, error) {
	return nil, &types.ProviderError{
		Type:     types.ErrorTypeNetwork,
		Provider: ProviderOffline,
		Message:  "remote translation is disabled",
		Err:      types.ErrOffline,
	}
}
