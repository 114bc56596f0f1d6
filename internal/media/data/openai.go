package data

import (
	"bytes"
	"context"
	"encoding/base64"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	openaiprovider "github.com/lk2023060901/ai-translator-backend/internal/ai/provider/openai"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/media/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

const (
	// DefaultTranscriptionModel 默认语音识别模型
	DefaultTranscriptionModel = openai.Whisper1

	// DefaultVisionModel 默认图片识别模型
	DefaultVisionModel = "gpt-4o-mini"

	providerName = "openai-media"

	ocrPrompt = "Extract all text visible in this image. Return only the extracted text, " +
		"preserving line breaks and reading order. If the image contains no text, return an empty response."
)

// OpenAIMedia 基于 OpenAI 兼容接口的语音识别与图片文字识别
type OpenAIMedia struct {
	client             *openai.Client
	transcriptionModel string
	visionModel        string
	logger             *logger.Logger
}

var (
	_ biz.Transcriber = (*OpenAIMedia)(nil)
	_ biz.ImageReader = (*OpenAIMedia)(nil)
)

// NewOpenAIMedia 创建媒体客户端，模型为空时使用默认值
func NewOpenAIMedia(config *types.Config, transcriptionModel, visionModel string, lgr *logger.Logger) (*OpenAIMedia, error) {
	if err := config.Validate(true, false); err != nil {
		return nil, err
	}
	if transcriptionModel == "" {
		transcriptionModel = DefaultTranscriptionModel
	}
	if visionModel == "" {
		visionModel = DefaultVisionModel
	}
	if lgr == nil {
		lgr = logger.L()
	}

	return &OpenAIMedia{
		client:             openaiprovider.NewClient(config),
		transcriptionModel: transcriptionModel,
		visionModel:        visionModel,
		logger:             lgr,
	}, nil
}

// Transcribe 调用 Whisper 转写音频
func (m *OpenAIMedia) Transcribe(ctx context.Context, in *biz.AudioInput) (*biz.Transcript, error) {
	resp, err := m.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    m.transcriptionModel,
		FilePath: in.Filename,
		Reader:   bytes.NewReader(in.Data),
		Language: in.Language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, openaiprovider.MapError(providerName, err)
	}

	m.logger.Debug("transcription completed",
		zap.String("model", m.transcriptionModel),
		zap.String("language", resp.Language),
		zap.Float64("duration", resp.Duration))

	return &biz.Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}, nil
}

// ExtractText 通过视觉模型识别图片中的文字
func (m *OpenAIMedia) ExtractText(ctx context.Context, in *biz.ImageInput) (string, error) {
	dataURL := "data:" + in.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(in.Data)

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.visionModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: ocrPrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailAuto,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", openaiprovider.MapError(providerName, err)
	}
	if len(resp.Choices) == 0 {
		return "", types.NewMalformedError(providerName, "response has no choices")
	}

	m.logger.Debug("image text extraction completed",
		zap.String("model", resp.Model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens))

	return resp.Choices[0].Message.Content, nil
}
