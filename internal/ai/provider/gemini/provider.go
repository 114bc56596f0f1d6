package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// Name Provider 名称
	Name = "gemini"

	// DefaultModel 默认翻译模型
	DefaultModel = "gemini-2.0-flash"
)

// Provider Google Gemini Provider 实现
type Provider struct {
	config *types.Config
	client *genai.Client
	logger *logger.Logger
}

// New 创建 Gemini Provider
func New(ctx context.Context, config *types.Config, lgr *logger.Logger) (*Provider, error) {
	if err := config.Validate(true, false); err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if lgr == nil {
		lgr = logger.L()
	}

	headers := make(http.Header, len(config.Headers))
	for key, value := range config.Headers {
		headers.Set(key, value)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: config.Timeout},
		HTTPOptions: genai.HTTPOptions{
			BaseURL: config.BaseURL,
			Headers: headers,
		},
	})
	if err != nil {
		return nil, types.NewProviderError(Name, "create client failed", err)
	}

	lgr.Info("gemini provider created",
		zap.String("model", config.Model),
		zap.Duration("timeout", config.Timeout))

	return &Provider{
		config: config,
		client: client,
		logger: lgr,
	}, nil
}

// Name 返回 Provider 名称
func (p *Provider) Name() string {
	return Name
}

// Translate 通过 GenerateContent 接口翻译文本
func (p *Provider) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(types.SystemPrompt(req.Source, req.Target), genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.3),
	})
	if err != nil {
		return nil, p.mapError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, &types.ProviderError{
			Type:     types.ErrorTypeMalformed,
			Provider: p.Name(),
			Message:  "empty candidates",
			Err:      types.ErrEmptyResponse,
		}
	}

	out := &types.TranslateResponse{
		TranslatedText: text,
		Model:          model,
	}
	if resp.ModelVersion != "" {
		out.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		out.PromptTokens = int(u.PromptTokenCount)
		out.CompletionTokens = int(u.CandidatesTokenCount)
	}

	p.logger.Debug("gemini translation completed",
		zap.String("model", out.Model),
		zap.Int("prompt_tokens", out.PromptTokens))

	return out, nil
}

// Close 关闭 Provider
func (p *Provider) Close() error {
	return nil
}

// mapError 将 genai 错误转换为 ProviderError
func (p *Provider) mapError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		e := types.NewStatusError(p.Name(), apiErr.Code, apiErr.Message)
		e.Err = err
		return e
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		e := types.NewStatusError(p.Name(), apiErrPtr.Code, apiErrPtr.Message)
		e.Err = err
		return e
	}
	return types.NewProviderError(p.Name(), "request failed", err)
}
