package injector

import (
	"time"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"github.com/lk2023060901/ai-translator-backend/internal/server"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/biz"
	"github.com/lk2023060901/ai-translator-backend/internal/translation/loader"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	HTTPServer *server.HTTPServer
	GRPCServer *server.GRPCServer
	Operations *biz.OperationManager
}

// Translator is the server-less translation stack used by the CLI and Lambda
type Translator struct {
	UseCase *biz.TranslationUseCase
	Loaders *loader.Factory
	Timeout time.Duration
}

func newApp(
	config *conf.Config,
	log *logger.Logger,
	httpServer *server.HTTPServer,
	grpcServer *server.GRPCServer,
	useCase *biz.TranslationUseCase,
) *App {
	return &App{
		Config:     config,
		Logger:     log,
		HTTPServer: httpServer,
		GRPCServer: grpcServer,
		Operations: useCase.Operations(),
	}
}

func newTranslator(config *conf.Config, useCase *biz.TranslationUseCase, loaders *loader.Factory) *Translator {
	return &Translator{
		UseCase: useCase,
		Loaders: loaders,
		Timeout: config.Translation.Timeout,
	}
}
