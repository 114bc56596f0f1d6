package biz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/chunker"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
	"go.uber.org/zap"
)

// Reporter 接收文档操作生命周期事件（sse.OperationReporter 实现该接口）
type Reporter interface {
	Start(totalChunks int, extra map[string]interface{}) error
	Progress(percentage int) error
	Complete(result interface{}) error
	Cancelled(completed int) error
	Failed(code int, err error) error
}

// Submitter 提交后台任务（workerpool.Pool 实现该接口）
type Submitter interface {
	Submit(task func()) error
}

// DocumentRequest 文档翻译请求
type DocumentRequest struct {
	Text      string
	Source    string
	Target    string
	Model     string
	SessionID string
	Metadata  map[string]interface{} // 透传到开始事件（文件名、类型等）
}

// DocumentResult 文档翻译结果
type DocumentResult struct {
	OperationID    string `json:"operation_id"`
	TranslatedText string `json:"translated_text,omitempty"`
	TotalChunks    int    `json:"total_chunks"`
	Completed      int    `json:"completed"`
	Cancelled      bool   `json:"cancelled"`
	UsedFallback   bool   `json:"used_fallback"`
	FallbackChunks []int  `json:"fallback_chunks,omitempty"`
	DurationMS     int64  `json:"duration_ms"`
}

// TranslationUseCase 翻译用例
type TranslationUseCase struct {
	client     *Client
	chunker    *chunker.Chunker
	scheduler  *Scheduler
	operations *OperationManager
	pool       Submitter
	logger     *logger.Logger
}

// NewTranslationUseCase 创建翻译用例；pool 为 nil 时 SubmitDocument 不可用
func NewTranslationUseCase(
	client *Client,
	ch *chunker.Chunker,
	scheduler *Scheduler,
	operations *OperationManager,
	pool Submitter,
	lgr *logger.Logger,
) *TranslationUseCase {
	if lgr == nil {
		lgr = logger.L()
	}
	return &TranslationUseCase{
		client:     client,
		chunker:    ch,
		scheduler:  scheduler,
		operations: operations,
		pool:       pool,
		logger:     lgr,
	}
}

// Operations 返回操作管理器
func (uc *TranslationUseCase) Operations() *OperationManager {
	return uc.operations
}

// NormalizeLanguages 校验并规范化语言代码
func NormalizeLanguages(source, target string) (string, string, error) {
	src, err := language.Normalize(source)
	if err != nil {
		return "", "", fmt.Errorf("%w: source %q", ErrInvalidLanguage, source)
	}
	dst, err := language.Normalize(target)
	if err != nil {
		return "", "", fmt.Errorf("%w: target %q", ErrInvalidLanguage, target)
	}
	return src, dst, nil
}

// TranslateText 翻译短文本（单次请求，不分片）
func (uc *TranslationUseCase) TranslateText(ctx context.Context, req *TranslateRequest) (*TranslationResult, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}
	src, dst, err := NormalizeLanguages(req.Source, req.Target)
	if err != nil {
		return nil, err
	}

	return uc.client.Translate(ctx, &TranslateRequest{
		Text:   req.Text,
		Source: src,
		Target: dst,
		Model:  req.Model,
	})
}

// TranslateDocument 同步翻译文档
func (uc *TranslationUseCase) TranslateDocument(ctx context.Context, req *DocumentRequest, reporter Reporter) (*DocumentResult, error) {
	if err := validateDocument(req); err != nil {
		return nil, err
	}
	op := uc.operations.Begin(ctx, req.SessionID)
	return uc.run(op, req, reporter)
}

// SubmitDocument 在工作池中异步翻译文档
//
// reporterFor 在操作 ID 确定后创建 Reporter；返回的通道在操作结束时收到唯一一个结果。
func (uc *TranslationUseCase) SubmitDocument(
	ctx context.Context,
	req *DocumentRequest,
	reporterFor func(op *Operation) Reporter,
) (*Operation, <-chan DocumentOutcome, error) {
	if uc.pool == nil {
		return nil, nil, ErrOperationBusy
	}
	if err := validateDocument(req); err != nil {
		return nil, nil, err
	}

	// 工作池接收任务后才登记操作，被拒绝时同一会话的旧操作继续运行
	op := uc.operations.Prepare(ctx, req.SessionID)
	reporter := reporterFor(op)
	done := make(chan DocumentOutcome, 1)
	activated := make(chan struct{})

	err := uc.pool.Submit(func() {
		<-activated
		result, err := uc.run(op, req, reporter)
		done <- DocumentOutcome{Result: result, Err: err}
		close(done)
	})
	if err != nil {
		uc.operations.Finish(op, OperationFailed)
		return nil, nil, fmt.Errorf("%w: %v", ErrOperationBusy, err)
	}
	uc.operations.Activate(op)
	close(activated)
	return op, done, nil
}

// DocumentOutcome 异步文档操作结果
type DocumentOutcome struct {
	Result *DocumentResult
	Err    error
}

// validateDocument 规范化语言代码并检查文本
func validateDocument(req *DocumentRequest) error {
	if strings.TrimSpace(req.Text) == "" {
		return ErrEmptyInput
	}
	src, dst, err := NormalizeLanguages(req.Source, req.Target)
	if err != nil {
		return err
	}
	req.Source, req.Target = src, dst
	return nil
}

// run 分片 -> 调度 -> 拼接，并推送生命周期事件
func (uc *TranslationUseCase) run(op *Operation, req *DocumentRequest, reporter Reporter) (*DocumentResult, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	ctx := op.Context()
	log := uc.logger.WithContext(ctx)

	chunks := uc.chunker.Split(req.Text)
	extra := map[string]interface{}{
		"source_lang": req.Source,
		"target_lang": req.Target,
	}
	for k, v := range req.Metadata {
		extra[k] = v
	}
	_ = reporter.Start(len(chunks), extra)

	log.Info("document translation started",
		zap.Int("chunks", len(chunks)),
		zap.Int("length", len(req.Text)),
		zap.String("source", req.Source),
		zap.String("target", req.Target))

	batch, err := uc.scheduler.Run(ctx, chunks,
		func(ctx context.Context, chunk *chunker.Chunk) (*TranslationResult, error) {
			return uc.client.Translate(ctx, &TranslateRequest{
				Text:   chunk.Content,
				Source: req.Source,
				Target: req.Target,
				Model:  req.Model,
			})
		},
		func(pct int) { _ = reporter.Progress(pct) },
	)

	result := &DocumentResult{
		OperationID: op.ID,
		TotalChunks: len(chunks),
	}

	if err != nil {
		uc.operations.Finish(op, OperationFailed)
		log.Error("document translation failed", zap.Error(err))
		_ = reporter.Failed(ErrorCode(err), err)
		return nil, err
	}

	result.Completed = batch.Completed
	result.DurationMS = time.Since(op.StartedAt).Milliseconds()
	result.FallbackChunks = batch.FallbackChunks
	result.UsedFallback = len(batch.FallbackChunks) > 0

	if batch.Cancelled {
		uc.operations.Finish(op, OperationCancelled)
		result.Cancelled = true
		log.Info("document translation cancelled", zap.Int("completed", batch.Completed))
		_ = reporter.Cancelled(batch.Completed)
		return result, nil
	}

	result.TranslatedText = chunker.JoinTranslated(chunks, batch.Texts())
	uc.operations.Finish(op, OperationCompleted)

	log.Info("document translation completed",
		zap.Int("chunks", len(chunks)),
		zap.Int("fallback_chunks", len(batch.FallbackChunks)),
		zap.Duration("duration", time.Since(op.StartedAt)))
	_ = reporter.Complete(result)
	return result, nil
}

type nopReporter struct{}

func (nopReporter) Start(int, map[string]interface{}) error { return nil }
func (nopReporter) Progress(int) error                      { return nil }
func (nopReporter) Complete(interface{}) error              { return nil }
func (nopReporter) Cancelled(int) error                     { return nil }
func (nopReporter) Failed(int, error) error                 { return nil }
