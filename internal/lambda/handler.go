// Package lambda 将翻译用例适配为 AWS Lambda 调用
package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
)

// Request 翻译调用的输入事件
type Request struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Model      string `json:"model,omitempty"`
	SessionID  string `json:"session_id,omitempty"`
}

// Response 文档翻译结果或带业务码的错误
type Response struct {
	Result  *biz.DocumentResult `json:"result,omitempty"`
	Code    int                 `json:"code"`
	Message string              `json:"message,omitempty"`
}

// DocumentTranslator 由 *biz.TranslationUseCase 实现
type DocumentTranslator interface {
	TranslateDocument(ctx context.Context, req *biz.DocumentRequest, reporter biz.Reporter) (*biz.DocumentResult, error)
}

type Handler struct {
	translator DocumentTranslator
	warmer     *Warmer
	logger     *logger.Logger
}

func NewHandler(translator DocumentTranslator, warmer *Warmer, lgr *logger.Logger) *Handler {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Handler{
		translator: translator,
		warmer:     warmer,
		logger:     lgr.Named("lambda"),
	}
}

// Route 将原始事件分派给预热或翻译
func (h *Handler) Route(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// 预热事件必须最先判断
	if warmup, ok := IsWarmupEvent(event); ok && h.warmer != nil {
		return h.warmer.Handle(ctx, warmup)
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	return h.Handle(ctx, req)
}

// Handle 执行翻译；业务错误写入响应体，只有基础设施故障才返回 error
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return &Response{Code: apperrors.ErrInvalidParams, Message: err.Error()}, nil
	}

	result, err := h.translator.TranslateDocument(ctx, &biz.DocumentRequest{
		Text:      req.Text,
		Source:    req.SourceLang,
		Target:    req.TargetLang,
		Model:     req.Model,
		SessionID: req.SessionID,
	}, nil)
	if err != nil {
		code := biz.ErrorCode(err)
		h.logger.WithContext(ctx).Warn("translation invocation failed",
			zap.Int("code", code),
			zap.Error(err))
		return &Response{Code: code, Message: err.Error()}, nil
	}

	h.logger.Info("translation invocation completed",
		zap.String("operation_id", result.OperationID),
		zap.Int("chunks", result.TotalChunks),
		zap.Bool("used_fallback", result.UsedFallback),
		zap.Int64("duration_ms", result.DurationMS))

	return &Response{Result: result, Code: apperrors.Success}, nil
}

func validateRequest(req Request) error {
	if strings.TrimSpace(req.SourceLang) == "" {
		return fmt.Errorf("source_lang is required")
	}
	if strings.TrimSpace(req.TargetLang) == "" {
		return fmt.Errorf("target_lang is required")
	}
	return nil
}
