package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	translationbiz "github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
)

// 默认文件大小上限
const (
	DefaultMaxImageSize int64 = 5 << 20
	DefaultMaxAudioSize int64 = 10 << 20
)

// 媒体相关错误
var (
	ErrEmptyFile        = errors.New("media file is empty")
	ErrFileTooLarge     = errors.New("media file too large")
	ErrInvalidType      = errors.New("unsupported media type")
	ErrTranscribeFailed = errors.New("transcription failed")
	ErrExtractFailed    = errors.New("image text extraction failed")
	ErrUnavailable      = errors.New("media service is not configured")
)

var imageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// 语音识别接受的容器格式（除 audio/* 外）
var audioContainers = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"application/ogg": true,
}

// AudioInput 语音识别输入
type AudioInput struct {
	Filename string
	Data     []byte
	Language string
}

// Transcript 语音识别结果
type Transcript struct {
	Text     string
	Language string // 服务端识别出的语言（可能是英文名称，如 "english"）
	Duration float64
}

// Transcriber 语音识别服务
type Transcriber interface {
	Transcribe(ctx context.Context, in *AudioInput) (*Transcript, error)
}

// ImageInput 图片文字识别输入
type ImageInput struct {
	MIMEType string
	Data     []byte
}

// ImageReader 图片文字识别服务
type ImageReader interface {
	ExtractText(ctx context.Context, in *ImageInput) (string, error)
}

// TextTranslator 文本翻译（translation biz.TranslationUseCase 实现该接口）
type TextTranslator interface {
	TranslateText(ctx context.Context, req *translationbiz.TranslateRequest) (*translationbiz.TranslationResult, error)
}

// Limits 文件大小上限
type Limits struct {
	MaxImageSize int64
	MaxAudioSize int64
}

// TranscribeRequest 语音识别请求
type TranscribeRequest struct {
	Filename   string
	Data       []byte
	Language   string
	TargetLang string
}

// OCRRequest 图片文字识别请求
type OCRRequest struct {
	Data       []byte
	SourceLang string
	TargetLang string
}

// MediaResult 识别结果（可选附带译文）
type MediaResult struct {
	Text           string  `json:"text"`
	Language       string  `json:"language,omitempty"`
	MIMEType       string  `json:"mime_type"`
	Duration       float64 `json:"duration,omitempty"`
	TranslatedText string  `json:"translated_text,omitempty"`
	TargetLang     string  `json:"target_lang,omitempty"`
	UsedFallback   bool    `json:"used_fallback"`
}

// MediaUseCase 媒体用例
type MediaUseCase struct {
	transcriber Transcriber
	reader      ImageReader
	translator  TextTranslator
	limits      Limits
	logger      *logger.Logger
}

// NewMediaUseCase 创建媒体用例；translator 为 nil 时忽略 target_lang
func NewMediaUseCase(
	transcriber Transcriber,
	reader ImageReader,
	translator TextTranslator,
	limits Limits,
	lgr *logger.Logger,
) *MediaUseCase {
	if limits.MaxImageSize <= 0 {
		limits.MaxImageSize = DefaultMaxImageSize
	}
	if limits.MaxAudioSize <= 0 {
		limits.MaxAudioSize = DefaultMaxAudioSize
	}
	if lgr == nil {
		lgr = logger.L()
	}
	return &MediaUseCase{
		transcriber: transcriber,
		reader:      reader,
		translator:  translator,
		limits:      limits,
		logger:      lgr,
	}
}

// Limits 返回文件大小上限
func (uc *MediaUseCase) Limits() Limits {
	return uc.limits
}

// Transcribe 语音转文字，target_lang 非空时附带译文
func (uc *MediaUseCase) Transcribe(ctx context.Context, req *TranscribeRequest) (*MediaResult, error) {
	mt, err := detect(req.Data, uc.limits.MaxAudioSize, isAudio)
	if err != nil {
		return nil, err
	}

	var source string
	if req.Language != "" {
		if source, err = language.Normalize(req.Language); err != nil {
			return nil, fmt.Errorf("%w: language %q", translationbiz.ErrInvalidLanguage, req.Language)
		}
	}
	target, err := uc.normalizeTarget(req.TargetLang)
	if err != nil {
		return nil, err
	}

	filename := req.Filename
	if filename == "" {
		filename = "audio" + mt.Extension()
	}

	transcript, err := uc.transcriber.Transcribe(ctx, &AudioInput{
		Filename: filename,
		Data:     req.Data,
		Language: source,
	})
	if err != nil {
		uc.logger.WithContext(ctx).Error("transcription failed", zap.String("mime", mt.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrTranscribeFailed, err)
	}

	if source == "" {
		source, _ = language.FromName(transcript.Language)
	}

	result := &MediaResult{
		Text:     strings.TrimSpace(transcript.Text),
		Language: source,
		MIMEType: mt.String(),
		Duration: transcript.Duration,
	}

	uc.logger.WithContext(ctx).Info("audio transcribed",
		zap.String("mime", result.MIMEType),
		zap.Int("size", len(req.Data)),
		zap.String("language", source),
		zap.Int("length", len(result.Text)))

	if err := uc.translate(ctx, result, source, target); err != nil {
		return nil, err
	}
	return result, nil
}

// ExtractText 图片文字识别，target_lang 非空时需要 source_lang
func (uc *MediaUseCase) ExtractText(ctx context.Context, req *OCRRequest) (*MediaResult, error) {
	mt, err := detect(req.Data, uc.limits.MaxImageSize, isImage)
	if err != nil {
		return nil, err
	}

	target, err := uc.normalizeTarget(req.TargetLang)
	if err != nil {
		return nil, err
	}
	var source string
	if req.SourceLang != "" || target != "" {
		if source, err = language.Normalize(req.SourceLang); err != nil {
			return nil, fmt.Errorf("%w: source %q", translationbiz.ErrInvalidLanguage, req.SourceLang)
		}
	}

	text, err := uc.reader.ExtractText(ctx, &ImageInput{MIMEType: mt.String(), Data: req.Data})
	if err != nil {
		uc.logger.WithContext(ctx).Error("image text extraction failed", zap.String("mime", mt.String()), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrExtractFailed, err)
	}

	result := &MediaResult{
		Text:     strings.TrimSpace(text),
		Language: source,
		MIMEType: mt.String(),
	}

	uc.logger.WithContext(ctx).Info("image text extracted",
		zap.String("mime", result.MIMEType),
		zap.Int("size", len(req.Data)),
		zap.Int("length", len(result.Text)))

	if err := uc.translate(ctx, result, source, target); err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *MediaUseCase) normalizeTarget(target string) (string, error) {
	if target == "" || uc.translator == nil {
		return "", nil
	}
	code, err := language.Normalize(target)
	if err != nil {
		return "", fmt.Errorf("%w: target %q", translationbiz.ErrInvalidLanguage, target)
	}
	return code, nil
}

// translate 将识别文本送入翻译客户端；未识别出源语言时跳过
func (uc *MediaUseCase) translate(ctx context.Context, result *MediaResult, source, target string) error {
	if target == "" || result.Text == "" {
		return nil
	}
	if source == "" {
		uc.logger.WithContext(ctx).Warn("source language unknown, skipping translation", zap.String("target", target))
		return nil
	}

	translated, err := uc.translator.TranslateText(ctx, &translationbiz.TranslateRequest{
		Text:   result.Text,
		Source: source,
		Target: target,
	})
	if err != nil {
		return err
	}
	result.TranslatedText = translated.TranslatedText
	result.TargetLang = target
	result.UsedFallback = translated.UsedFallback
	return nil
}

// detect 校验文件大小并嗅探 MIME 类型
func detect(data []byte, limit int64, allowed func(string) bool) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, len(data), limit)
	}

	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if allowed(m.String()) {
			return mt, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidType, mt.String())
}

func isImage(mime string) bool {
	return imageTypes[mime]
}

func isAudio(mime string) bool {
	return strings.HasPrefix(mime, "audio/") || audioContainers[mime]
}
