package data

import (
	"context"

	"github.com/lk2023060901/ai-translator-backend/internal/media/biz"
)

// Disabled 未配置 API Key 时使用，所有调用返回 biz.ErrUnavailable
type Disabled struct{}

func (Disabled) Transcribe(context.Context, *biz.AudioInput) (*biz.Transcript, error) {
	return nil, biz.ErrUnavailable
}

func (Disabled) ExtractText(context.Context, *biz.ImageInput) (string, error) {
	return "", biz.ErrUnavailable
}
