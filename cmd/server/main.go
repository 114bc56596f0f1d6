package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/injector"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
	"go.uber.org/zap"
)

var (
	configFile = flag.String("config", "configs/config.yaml", "config file path")
)

func main() {
	flag.Parse()

	// Load configuration
	loader := conf.NewLoader(*configFile)
	config, err := loader.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Initialize global logger
	if err := logger.InitGlobal(&config.Log); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully",
		zap.String("provider", config.Translation.Provider),
		zap.String("cache_backend", config.Translation.Cache.Backend),
		zap.Bool("redis_enabled", config.Redis.Enabled))

	app, cleanup, err := injector.InitializeApp(config, log)
	if err != nil {
		log.Fatal("failed to initialize application", zap.Error(err))
	}
	defer cleanup()

	// 只热更新日志级别，其余配置需要重启
	loader.Watch(func(updated *conf.Config, err error) {
		if err != nil {
			log.Warn("config reload rejected", zap.Error(err))
			return
		}
		if err := log.SetLevel(updated.Log.Level); err != nil {
			log.Warn("invalid log level in reloaded config", zap.Error(err))
			return
		}
		log.Info("log level updated", zap.String("level", updated.Log.Level))
	})

	// Start servers in goroutines
	go func() {
		if err := app.HTTPServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	go func() {
		if err := app.GRPCServer.Start(); err != nil {
			log.Fatal("failed to start gRPC server", zap.Error(err))
		}
	}()

	log.Info("servers started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down servers...")

	if n := app.Operations.CancelAll(); n > 0 {
		log.Info("cancelled in-flight operations", zap.Int("count", n))
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
	defer cancel()

	// Stop gRPC server
	app.GRPCServer.Stop()

	// Stop HTTP server
	if err := app.HTTPServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("servers exited")
}
