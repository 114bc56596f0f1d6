// Package httpjson 对接任意 JSON 翻译接口：POST {text, sourceLanguage, targetLanguage, model}，
// 按 gjson 路径读取译文。
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// Name Provider 名称
	Name = "http"

	// DefaultResponsePath 默认译文字段
	DefaultResponsePath = "translatedText"

	maxErrorBody = 512
)

type requestBody struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"sourceLanguage"`
	TargetLanguage string `json:"targetLanguage"`
	Model          string `json:"model,omitempty"`
}

// Provider HTTP JSON Provider 实现
type Provider struct {
	config       *types.Config
	responsePath string
	client       *http.Client
	logger       *logger.Logger
}

// New 创建 HTTP JSON Provider，BaseURL 为完整的翻译接口地址
func New(config *types.Config, responsePath string, lgr *logger.Logger) (*Provider, error) {
	if err := config.Validate(false, true); err != nil {
		return nil, err
	}
	if responsePath == "" {
		responsePath = DefaultResponsePath
	}
	if lgr == nil {
		lgr = logger.L()
	}

	lgr.Info("http translation provider created",
		zap.String("url", config.BaseURL),
		zap.String("response_path", responsePath))

	return &Provider{
		config:       config,
		responsePath: responsePath,
		client:       &http.Client{Timeout: config.Timeout},
		logger:       lgr,
	}, nil
}

// Name 返回 Provider 名称
func (p *Provider) Name() string {
	return Name
}

// setHeaders 设置请求 headers（包括默认 headers 和自定义 headers）
func (p *Provider) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.config.APIKey)
	}
	for key, value := range p.config.Headers {
		req.Header.Set(key, value)
	}
}

// Translate 调用远程翻译接口
func (p *Provider) Translate(ctx context.Context, req *types.TranslateRequest) (*types.TranslateResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}

	payload, err := json.Marshal(requestBody{
		Text:           req.Text,
		SourceLanguage: req.Source,
		TargetLanguage: req.Target,
		Model:          model,
	})
	if err != nil {
		return nil, types.NewProviderError(p.Name(), "marshal request failed", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, types.NewProviderError(p.Name(), "create request failed", err)
	}
	p.setHeaders(httpReq)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, types.NewProviderError(p.Name(), "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewProviderError(p.Name(), "read response failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		e := types.NewStatusError(p.Name(), resp.StatusCode, truncate(string(body), maxErrorBody))
		e.RequestID = resp.Header.Get("X-Request-ID")
		return nil, e
	}

	if !gjson.ValidBytes(body) {
		return nil, types.NewMalformedError(p.Name(), "response is not valid JSON")
	}

	result := gjson.GetBytes(body, p.responsePath)
	if !result.Exists() || result.Type != gjson.String {
		return nil, types.NewMalformedError(p.Name(), fmt.Sprintf("response has no string at %q", p.responsePath))
	}
	if strings.TrimSpace(result.String()) == "" {
		return nil, &types.ProviderError{
			Type:     types.ErrorTypeMalformed,
			Provider: p.Name(),
			Message:  "empty translation",
			Err:      types.ErrEmptyResponse,
		}
	}

	return &types.TranslateResponse{
		TranslatedText: result.String(),
		Model:          model,
	}, nil
}

// Close 关闭 Provider
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
