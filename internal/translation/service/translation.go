package service

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/response"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/sse"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/loader"
)

const defaultStreamBuffer = 128

type TranslationService struct {
	useCase    *biz.TranslationUseCase
	loaders    *loader.Factory
	sseHub     *sse.Hub
	bufferSize int
	logger     *logger.Logger
}

func NewTranslationService(
	useCase *biz.TranslationUseCase,
	loaders *loader.Factory,
	sseHub *sse.Hub,
	bufferSize int,
	lgr *logger.Logger,
) *TranslationService {
	if bufferSize <= 0 {
		bufferSize = defaultStreamBuffer
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &TranslationService{
		useCase:    useCase,
		loaders:    loaders,
		sseHub:     sseHub,
		bufferSize: bufferSize,
		logger:     lgr.Named("translation"),
	}
}

func (s *TranslationService) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/languages", s.ListLanguages)

	translate := api.Group("/translate")
	{
		translate.POST("/text", s.TranslateText)
		translate.POST("/document", s.TranslateDocument)
		translate.GET("/operations", s.ListOperations)
		translate.POST("/operations/:id/cancel", s.CancelOperation)
	}
}

// ListLanguages 支持的语言列表
func (s *TranslationService) ListLanguages(c *gin.Context) {
	response.Success(c, gin.H{"languages": language.Supported()})
}

// TranslateText 短文本翻译（返回 JSON）
func (s *TranslationService) TranslateText(c *gin.Context) {
	var req TranslateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	result, err := s.useCase.TranslateText(c.Request.Context(), &biz.TranslateRequest{
		Text:   req.Text,
		Source: req.SourceLang,
		Target: req.TargetLang,
		Model:  req.Model,
	})
	if err != nil {
		s.logger.WithContext(c.Request.Context()).Warn("text translation failed", zap.Error(err))
		response.HandleError(c, biz.ToAppError(err))
		return
	}

	src, dst, _ := biz.NormalizeLanguages(req.SourceLang, req.TargetLang)
	response.Success(c, TranslateTextResponse{
		TranslatedText: result.TranslatedText,
		SourceLang:     src,
		TargetLang:     dst,
		UsedFallback:   result.UsedFallback,
		Cached:         result.Cached,
	})
}

// TranslateDocument 文档翻译（SSE 推送进度）
//
// 请求体为 multipart 表单（file 字段）或 JSON（text 字段）。
// 客户端断开连接时取消对应操作。
func (s *TranslationService) TranslateDocument(c *gin.Context) {
	var req TranslateDocumentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, err.Error())
		return
	}

	docReq := &biz.DocumentRequest{
		Text:      req.Text,
		Source:    req.SourceLang,
		Target:    req.TargetLang,
		Model:     req.Model,
		SessionID: sessionID(c, req.SessionID),
	}

	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		doc, err := s.extractUpload(c)
		if err != nil {
			response.HandleError(c, biz.ToAppError(err))
			return
		}
		if doc != nil {
			docReq.Text = doc.Content
			docReq.Metadata = map[string]interface{}{
				"filename":  doc.Metadata["filename"],
				"file_type": doc.Type.String(),
			}
		}
	}

	var stream *sse.Stream
	op, done, err := s.useCase.SubmitDocument(c.Request.Context(), docReq, func(op *biz.Operation) biz.Reporter {
		stream = sse.NewStream(c, s.sseHub).
			WithResource("operation:" + op.ID).
			WithBufferSize(s.bufferSize).
			OnDisconnect(func() {
				s.logger.Info("client disconnected, cancelling operation", zap.String("operation_id", op.ID))
				_ = s.useCase.Operations().Cancel(op.ID)
			}).
			OnError(func(err error) {
				s.logger.Warn("sse write failed", zap.String("operation_id", op.ID), zap.Error(err))
			}).
			Build()
		return sse.NewOperationReporter(stream, op.ID)
	})
	if err != nil {
		if stream != nil {
			_ = stream.Close()
		}
		s.logger.WithContext(c.Request.Context()).Warn("document translation rejected", zap.Error(err))
		response.HandleError(c, biz.ToAppError(err))
		return
	}

	go func() {
		out := <-done
		if out.Err != nil {
			s.logger.Error("document operation failed", zap.String("operation_id", op.ID), zap.Error(out.Err))
		}
		_ = stream.Close()
	}()

	stream.StartStreaming()
}

// extractUpload 读取上传文件并提取文本；无 file 字段时返回 nil
func (s *TranslationService) extractUpload(c *gin.Context) (*loader.Document, error) {
	file, header, err := c.Request.FormFile("file")
	if err == http.ErrMissingFile {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidParams, "invalid file or field name is not 'file'")
	}
	defer file.Close()

	if header.Size > s.loaders.MaxSize() {
		return nil, loader.ErrFileTooLarge
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrBadRequest, "failed to read file")
	}

	s.logger.Info("document upload",
		zap.String("filename", header.Filename),
		zap.Int("file_size", len(data)))

	return s.loaders.Extract(c.Request.Context(), header.Filename, data)
}

// CancelOperation 取消进行中的文档操作
func (s *TranslationService) CancelOperation(c *gin.Context) {
	id := c.Param("id")
	if err := s.useCase.Operations().Cancel(id); err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}

	s.logger.Info("operation cancelled by request", zap.String("operation_id", id))
	response.Success(c, CancelOperationResponse{OperationID: id, Cancelled: true})
}

// ListOperations 活跃操作列表
func (s *TranslationService) ListOperations(c *gin.Context) {
	ops := s.useCase.Operations().Active()
	response.Success(c, ListOperationsResponse{Operations: ops, Total: len(ops)})
}

func sessionID(c *gin.Context, fallback string) string {
	if id := strings.TrimSpace(c.GetHeader(HeaderSessionID)); id != "" {
		return id
	}
	return strings.TrimSpace(fallback)
}
