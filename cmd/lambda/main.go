// Package main is the entry point for the translation Lambda function.
package main

import (
	"context"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/lambda"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/injector"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

func main() {
	// 未设置 TRANSLATOR_CONFIG_FILE 时只使用默认值和 TRANSLATOR_* 环境变量
	config, err := conf.NewLoader(os.Getenv("TRANSLATOR_CONFIG_FILE")).Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&config.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()
	logger.SetGlobal(log)

	translator, cleanup, err := injector.InitializeTranslator(config, log)
	if err != nil {
		log.Fatal("failed to initialize translator", zap.Error(err))
	}
	defer cleanup()

	warmer, err := lambda.NewAWSWarmer(context.Background(), log)
	if err != nil {
		log.Warn("warmup self-invoke disabled", zap.Error(err))
	}

	handler := lambda.NewHandler(translator.UseCase, warmer, log)
	awslambda.Start(handler.Route)
}
