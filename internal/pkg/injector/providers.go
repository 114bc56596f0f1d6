package injector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/factory"
	"github.com/lk2023060901/ai-translator-backend/internal/ai/provider/types"
	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/data"
	mediabiz "github.com/lk2023060901/ai-translator-backend/internal/media/biz"
	mediadata "github.com/lk2023060901/ai-translator-backend/internal/media/data"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/sse"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/ai-translator-backend/internal/server"
	sharebiz "github.com/lk2023060901/ai-translator-backend/internal/share/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/chunker"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/fallback"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/loader"
	translationservice "github.com/lk2023060901/ai-translator-backend/internal/translation/service"
)

// Data layer helpers

func provideData(config *conf.Config, log *logger.Logger) (*data.Data, func(), error) {
	return data.NewData(config, log)
}

// Translation providers

func provideTranslationProvider(config *conf.Config, log *logger.Logger) (types.Provider, func(), error) {
	p, err := factory.New(context.Background(), config.Translation, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := p.Close(); err != nil {
			log.Warn("failed to close translation provider", zap.Error(err))
		}
	}
	return p, cleanup, nil
}

func provideChunker(config *conf.Config) (*chunker.Chunker, error) {
	var opts []chunker.Option
	if enc := config.Translation.TokenEncoding; enc != "" {
		counter, err := chunker.NewTiktokenCounter(enc)
		if err != nil {
			return nil, fmt.Errorf("token encoding %q: %w", enc, err)
		}
		opts = append(opts, chunker.WithTokenCounter(counter))
	}
	return chunker.New(config.Translation.MaxChunkSize, opts...)
}

func provideClient(provider types.Provider, d *data.Data, config *conf.Config, log *logger.Logger) *biz.Client {
	t := config.Translation
	return biz.NewClient(provider, d.Cache, fallback.New(), biz.ClientConfig{
		Timeout:         t.Timeout,
		Model:           t.Model,
		FallbackEnabled: t.FallbackEnabled,
		MaxCacheLength:  t.Cache.MaxTextLength,
	}, log)
}

func provideScheduler(config *conf.Config, log *logger.Logger) *biz.Scheduler {
	return biz.NewScheduler(config.Translation.Concurrency, log)
}

func provideWorkerPool(config *conf.Config, log *logger.Logger) (*workerpool.Pool, func(), error) {
	pool, err := workerpool.New(&config.Document.Pool, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := pool.Shutdown(config.Server.ShutdownTimeout); err != nil {
			log.Warn("worker pool shutdown timed out", zap.Error(err))
		}
	}
	return pool, cleanup, nil
}

func provideTranslationUseCase(
	client *biz.Client,
	ch *chunker.Chunker,
	scheduler *biz.Scheduler,
	operations *biz.OperationManager,
	pool *workerpool.Pool,
	log *logger.Logger,
) *biz.TranslationUseCase {
	return biz.NewTranslationUseCase(client, ch, scheduler, operations, pool, log)
}

func provideLoaderFactory(config *conf.Config) *loader.Factory {
	return loader.NewFactory(loader.Options{
		MaxSize:             config.Document.MaxSize,
		UnidocLicenseKey:    config.Document.UnidocLicenseKey,
		StripMarkdownMarkup: config.Document.StripMarkdown,
	})
}

func provideTranslationService(
	useCase *biz.TranslationUseCase,
	loaders *loader.Factory,
	hub *sse.Hub,
	config *conf.Config,
	log *logger.Logger,
) *translationservice.TranslationService {
	return translationservice.NewTranslationService(useCase, loaders, hub, config.Document.OperationBufferSize, log)
}

// Media providers

// provideMediaUseCase 媒体服务使用 media.api_key，未配置时回退到 translation.api_key
func provideMediaUseCase(config *conf.Config, useCase *biz.TranslationUseCase, log *logger.Logger) (*mediabiz.MediaUseCase, error) {
	m := config.Media
	apiKey := m.APIKey
	baseURL := m.BaseURL
	if apiKey == "" && config.Translation.Provider == factory.ProviderOpenAI {
		apiKey = config.Translation.APIKey
		if baseURL == "" {
			baseURL = config.Translation.BaseURL
		}
	}
	limits := mediabiz.Limits{MaxImageSize: m.MaxImageSize, MaxAudioSize: m.MaxAudioSize}

	if apiKey == "" {
		log.Warn("media api key not configured, transcription and ocr are disabled")
		return mediabiz.NewMediaUseCase(mediadata.Disabled{}, mediadata.Disabled{}, useCase, limits, log), nil
	}

	client, err := mediadata.NewOpenAIMedia(&types.Config{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Timeout: m.Timeout,
	}, m.TranscriptionModel, m.VisionModel, log)
	if err != nil {
		return nil, err
	}
	return mediabiz.NewMediaUseCase(client, client, useCase, limits, log), nil
}

// Share providers

func provideShareUseCase(d *data.Data, config *conf.Config, log *logger.Logger) *sharebiz.ShareUseCase {
	return sharebiz.NewShareUseCase(d.Shares, sharebiz.Config{
		BaseURL:    config.Share.BaseURL,
		TTL:        config.Share.TTL,
		QRCodeSize: config.Share.QRCodeSize,
	}, log)
}

// Server providers

func provideHealth(provider types.Provider, d *data.Data) *server.Health {
	return server.NewHealth(provider, d.Redis)
}
