package biz

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/cache"
	"go.uber.org/zap"
)

// Endpoint 远程翻译接口（由 ai/provider 实现）
type Endpoint interface {
	Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error)
}

// FallbackTranslator 离线兜底翻译
type FallbackTranslator interface {
	Translate(text, source, target string) string
}

// TranslateRequest 单段文本翻译请求
type TranslateRequest struct {
	Text   string
	Source string
	Target string
	Model  string
}

// TranslationResult 单段翻译结果
type TranslationResult struct {
	TranslatedText string `json:"translated_text"`
	UsedFallback   bool   `json:"used_fallback"`
	Cached         bool   `json:"cached,omitempty"`
}

// ClientConfig 翻译客户端配置
type ClientConfig struct {
	Timeout         time.Duration // 单次远程请求超时
	Model           string        // 请求未指定模型时使用，参与缓存键
	FallbackEnabled bool          // false 时远程失败直接返回错误
	MaxCacheLength  int           // 仅缓存短于该长度（字符数）的文本
}

// Client 翻译客户端：缓存 -> 远程 -> 兜底
type Client struct {
	endpoint Endpoint
	cache    cache.Cache
	fallback FallbackTranslator
	config   ClientConfig
	logger   *logger.Logger
}

// NewClient 创建翻译客户端，c 为 nil 时不使用缓存
func NewClient(endpoint Endpoint, c cache.Cache, fallback FallbackTranslator, cfg ClientConfig, lgr *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.MaxCacheLength <= 0 {
		cfg.MaxCacheLength = cache.DefaultMaxTextLength
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &Client{
		endpoint: endpoint,
		cache:    c,
		fallback: fallback,
		config:   cfg,
		logger:   lgr,
	}
}

// Translate 翻译一段文本
//
// 源语言与目标语言相同时原样返回；调用方取消时返回 ctx 错误，不进入兜底。
func (c *Client) Translate(ctx context.Context, req *TranslateRequest) (*TranslationResult, error) {
	if req.Source == req.Target || strings.TrimSpace(req.Text) == "" {
		return &TranslationResult{TranslatedText: req.Text}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	cacheable := c.cache != nil && cache.Cacheable(req.Text, c.config.MaxCacheLength)
	key := cache.NewKey(req.Text, req.Source, req.Target, model)
	if cacheable {
		if value, ok := c.cache.Get(ctx, key); ok {
			return &TranslationResult{TranslatedText: value, Cached: true}, nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	resp, err := c.endpoint.Translate(callCtx, &types.TranslateRequest{
		Text:   req.Text,
		Source: req.Source,
		Target: req.Target,
		Model:  model,
	})
	cancel()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !c.config.FallbackEnabled || c.fallback == nil {
			return nil, err
		}

		c.logger.WithContext(ctx).Warn("remote translation failed, using fallback",
			zap.String("source", req.Source),
			zap.String("target", req.Target),
			zap.Int("length", len(req.Text)),
			zap.Error(err))

		return &TranslationResult{
			TranslatedText: c.fallback.Translate(req.Text, req.Source, req.Target),
			UsedFallback:   true,
		}, nil
	}

	translated := restoreSpacing(req.Text, resp.TranslatedText)
	if cacheable {
		if err := c.cache.Set(ctx, key, translated); err != nil {
			c.logger.Warn("failed to cache translation", zap.Error(err))
		}
	}

	return &TranslationResult{TranslatedText: translated}, nil
}

// restoreSpacing 用原文首尾空白替换译文首尾空白
//
// 模型回复通常会去掉首尾空白，而分片的空白属于分片内容，拼接时依赖它分隔句子。
func restoreSpacing(source, translated string) string {
	core := strings.TrimFunc(translated, unicode.IsSpace)
	if core == "" {
		return translated
	}
	body := strings.TrimLeftFunc(source, unicode.IsSpace)
	leading := source[:len(source)-len(body)]
	trailing := body[len(strings.TrimRightFunc(body, unicode.IsSpace)):]
	return leading + core + trailing
}
