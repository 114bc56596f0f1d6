package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	mediaservice "github.com/lk2023060901/ai-translator-backend/internal/media/service"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	shareservice "github.com/lk2023060901/ai-translator-backend/internal/share/service"
	translationservice "github.com/lk2023060901/ai-translator-backend/internal/translation/service"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	health *Health,
	translationService *translationservice.TranslationService,
	mediaService *mediaservice.MediaService,
	shareService *shareservice.ShareService,
) *HTTPServer {
	router := NewRouter(config, log, health, translationService, mediaService, shareService)

	return &HTTPServer{
		server: &http.Server{
			Addr:    config.Server.Addr(),
			Handler: router,
		},
		logger: log,
	}
}

// NewRouter 注册中间件与全部路由
func NewRouter(
	config *conf.Config,
	log *logger.Logger,
	health *Health,
	translationService *translationservice.TranslationService,
	mediaService *mediaservice.MediaService,
	shareService *shareservice.ShareService,
) *gin.Engine {
	if config.Server.Mode != "" {
		gin.SetMode(config.Server.Mode)
	}

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLoggerWithConfig(log, logger.MiddlewareOptions{
		SkipPaths: []string{"/health"},
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, health.Check(c.Request.Context()))
	})

	// API routes
	api := router.Group("/api/v1")
	translationService.RegisterRoutes(api)
	mediaService.RegisterRoutes(api)
	shareService.RegisterRoutes(api)

	return router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
