package service

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/media/biz"
	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/response"
)

type MediaService struct {
	useCase *biz.MediaUseCase
	logger  *logger.Logger
}

func NewMediaService(useCase *biz.MediaUseCase, lgr *logger.Logger) *MediaService {
	if lgr == nil {
		lgr = logger.L()
	}
	return &MediaService{
		useCase: useCase,
		logger:  lgr.Named("media"),
	}
}

func (s *MediaService) RegisterRoutes(api *gin.RouterGroup) {
	media := api.Group("/media")
	{
		media.POST("/transcribe", s.Transcribe)
		media.POST("/ocr", s.ExtractText)
	}
}

// Transcribe 语音转文字（multipart: file, language, target_lang）
func (s *MediaService) Transcribe(c *gin.Context) {
	filename, data, ok := s.readUpload(c, s.useCase.Limits().MaxAudioSize)
	if !ok {
		return
	}

	result, err := s.useCase.Transcribe(c.Request.Context(), &biz.TranscribeRequest{
		Filename:   filename,
		Data:       data,
		Language:   c.PostForm("language"),
		TargetLang: c.PostForm("target_lang"),
	})
	if err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}
	response.Success(c, result)
}

// ExtractText 图片文字识别（multipart: file, source_lang, target_lang）
func (s *MediaService) ExtractText(c *gin.Context) {
	_, data, ok := s.readUpload(c, s.useCase.Limits().MaxImageSize)
	if !ok {
		return
	}

	result, err := s.useCase.ExtractText(c.Request.Context(), &biz.OCRRequest{
		Data:       data,
		SourceLang: c.PostForm("source_lang"),
		TargetLang: c.PostForm("target_lang"),
	})
	if err != nil {
		response.HandleError(c, biz.ToAppError(err))
		return
	}
	response.Success(c, result)
}

// readUpload 读取 file 字段，超过 limit 时直接拒绝
func (s *MediaService) readUpload(c *gin.Context, limit int64) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.ErrorWithCode(c, apperrors.ErrInvalidParams, "invalid file or field name is not 'file'")
		return "", nil, false
	}
	defer file.Close()

	if header.Size > limit {
		response.HandleError(c, biz.ToAppError(biz.ErrFileTooLarge))
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to read file")
		return "", nil, false
	}

	s.logger.Info("media upload",
		zap.String("path", c.FullPath()),
		zap.String("filename", header.Filename),
		zap.Int("file_size", len(data)))

	return header.Filename, data, true
}
