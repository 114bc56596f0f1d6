package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// Name Provider 名称
	Name = "openai"

	// DefaultModel 默认翻译模型
	DefaultModel = "gpt-4o-mini"

	temperature = 0.3
)

// Provider OpenAI Provider 实现
type Provider struct {
	config *types.Config
	client *openai.Client
	logger *logger.Logger
}

// NewClient 根据通用配置创建 go-openai 客户端（翻译与媒体服务共用）
func NewClient(config *types.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientCfg.BaseURL = config.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout:   config.Timeout,
		Transport: &headerTransport{headers: config.Headers, base: http.DefaultTransport},
	}
	return openai.NewClientWithConfig(clientCfg)
}

// New 创建 OpenAI Provider
func New(config *types.Config, lgr *logger.Logger) (*Provider, error) {
	if err := config.Validate(true, false); err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if lgr == nil {
		lgr = logger.L()
	}

	lgr.Info("openai provider created",
		zap.String("model", config.Model),
		zap.Duration("timeout", config.Timeout))

	return &Provider{
		config: config,
		client: NewClient(config),
		logger: lgr,
	}, nil
}

// Name 返回 Provider 名称
func (p *Provider) Name() string {
	return Name
}

// Translate 通过 Chat Completions 接口翻译文本
func (p *Provider) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: types.SystemPrompt(req.Source, req.Target)},
			{Role: openai.ChatMessageRoleUser, Content: req.Text},
		},
	})
	if err != nil {
		return nil, MapError(p.Name(), err)
	}

	if len(resp.Choices) == 0 {
		return nil, types.NewMalformedError(p.Name(), "response has no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, &types.ProviderError{
			Type:      types.ErrorTypeMalformed,
			Provider:  p.Name(),
			Message:   "empty completion",
			RequestID: resp.ID,
			Err:       types.ErrEmptyResponse,
		}
	}

	p.logger.Debug("openai translation completed",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return &types.TranslateResponse{
		TranslatedText:   text,
		Model:            resp.Model,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

// Close 关闭 Provider
func (p *Provider) Close() error {
	return nil
}

// MapError 将 go-openai 错误转换为 ProviderError
func MapError(provider string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		e := types.NewStatusError(provider, apiErr.HTTPStatusCode, apiErr.Message)
		e.Err = err
		return e
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		e := types.NewStatusError(provider, reqErr.HTTPStatusCode, "request failed")
		e.Err = err
		return e
	}

	return types.NewProviderError(provider, "request failed", err)
}

// headerTransport 为每个请求附加自定义 Headers
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}
	return t.base.RoundTrip(req)
}
