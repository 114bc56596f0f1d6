//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	mediaservice "github.com/lk2023060901/ai-translator-backend/internal/media/service"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/sse"
	"github.com/lk2023060901/ai-translator-backend/internal/server"
	shareservice "github.com/lk2023060901/ai-translator-backend/internal/share/service"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	provideData,
)

// Translation core providers
var translationProviderSet = wire.NewSet(
	provideTranslationProvider,
	provideChunker,
	provideClient,
	provideScheduler,
	biz.NewOperationManager,
	provideWorkerPool,
	provideTranslationUseCase,
	provideLoaderFactory,
)

// HTTP service providers
var httpServiceProviderSet = wire.NewSet(
	sse.NewHub,
	provideTranslationService,
	provideMediaUseCase,
	mediaservice.NewMediaService,
	provideShareUseCase,
	shareservice.NewShareService,
)

// Server providers
var serverProviderSet = wire.NewSet(
	provideHealth,
	server.NewHTTPServer,
	server.NewGRPCServer,
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	dataProviderSet,
	translationProviderSet,
	httpServiceProviderSet,
	serverProviderSet,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}

// InitializeTranslator builds the translation stack without servers
func InitializeTranslator(config *conf.Config, log *logger.Logger) (*Translator, func(), error) {
	wire.Build(dataProviderSet, translationProviderSet, newTranslator)
	return nil, nil, nil
}
