package biz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/language"
)

// 默认配置
const (
	DefaultTTL        = 7 * 24 * time.Hour
	DefaultQRCodeSize = 256
	MaxShareLength    = 100 << 10
)

// 分享相关错误
var (
	ErrShareNotFound = errors.New("share not found or expired")
	ErrInvalidShare  = errors.New("invalid share")
)

// Share 分享的一次翻译
type Share struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"source_text,omitempty"`
	TranslatedText string    `json:"translated_text"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ShareRepo 分享存储，过期后 Get 返回 ErrShareNotFound
type ShareRepo interface {
	Save(ctx context.Context, share *Share, ttl time.Duration) error
	Get(ctx context.Context, id string) (*Share, error)
}

// CreateShareRequest 创建分享请求
type CreateShareRequest struct {
	SourceText     string `json:"source_text"`
	TranslatedText string `json:"translated_text"`
	SourceLang     string `json:"source_lang"`
	TargetLang     string `json:"target_lang"`
}

// ShareLink 创建结果
type ShareLink struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Config 分享配置
type Config struct {
	BaseURL    string
	TTL        time.Duration
	QRCodeSize int
}

// ShareUseCase 分享用例
type ShareUseCase struct {
	repo   ShareRepo
	config Config
	now    func() time.Time
	logger *logger.Logger
}

func NewShareUseCase(repo ShareRepo, config Config, lgr *logger.Logger) *ShareUseCase {
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}
	if config.QRCodeSize <= 0 {
		config.QRCodeSize = DefaultQRCodeSize
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if lgr == nil {
		lgr = logger.L()
	}
	return &ShareUseCase{
		repo:   repo,
		config: config,
		now:    time.Now,
		logger: lgr,
	}
}

// Create 保存翻译并返回分享链接
func (uc *ShareUseCase) Create(ctx context.Context, req *CreateShareRequest) (*ShareLink, error) {
	if strings.TrimSpace(req.TranslatedText) == "" {
		return nil, fmt.Errorf("%w: translated_text is required", ErrInvalidShare)
	}
	if len(req.SourceText)+len(req.TranslatedText) > MaxShareLength {
		return nil, fmt.Errorf("%w: content exceeds %d bytes", ErrInvalidShare, MaxShareLength)
	}
	src, err := language.Normalize(req.SourceLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}
	dst, err := language.Normalize(req.TargetLang)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShare, err)
	}

	now := uc.now().UTC()
	share := &Share{
		ID:             uuid.New().String(),
		SourceText:     req.SourceText,
		TranslatedText: req.TranslatedText,
		SourceLang:     src,
		TargetLang:     dst,
		CreatedAt:      now,
		ExpiresAt:      now.Add(uc.config.TTL),
	}

	if err := uc.repo.Save(ctx, share, uc.config.TTL); err != nil {
		uc.logger.WithContext(ctx).Error("failed to save share", zap.Error(err))
		return nil, err
	}

	uc.logger.WithContext(ctx).Info("share created",
		zap.String("share_id", share.ID),
		zap.Duration("ttl", uc.config.TTL))

	return &ShareLink{
		ID:        share.ID,
		URL:       uc.URL(share.ID),
		ExpiresAt: share.ExpiresAt,
	}, nil
}

// Get 读取分享
func (uc *ShareUseCase) Get(ctx context.Context, id string) (*Share, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrShareNotFound
	}
	return uc.repo.Get(ctx, id)
}

// QRCode 生成分享链接的 PNG 二维码
func (uc *ShareUseCase) QRCode(ctx context.Context, id string) ([]byte, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	return qrcode.Encode(uc.URL(id), qrcode.Medium, uc.config.QRCodeSize)
}

// URL 分享页面地址
func (uc *ShareUseCase) URL(id string) string {
	return uc.config.BaseURL + "/share/" + id
}
