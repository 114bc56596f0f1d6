package lambda

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	lambdasdk "github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

const (
	// WarmupSource 定时预热事件的来源标识
	WarmupSource = "warmup"

	// WarmupDelay 预热实例的停留时间，使多个实例同时在线
	WarmupDelay = 75 * time.Millisecond
)

// WarmupEvent 定时预热事件
type WarmupEvent struct {
	Source      string `json:"source"`
	Concurrency int    `json:"concurrency"`
}

// WarmupResponse 预热调用的响应
type WarmupResponse struct {
	Status          string `json:"status"`
	InstancesWarmed int    `json:"instances_warmed"`
}

// Invoker 自调用用到的 Lambda API
type Invoker interface {
	Invoke(ctx context.Context, params *lambdasdk.InvokeInput, optFns ...func(*lambdasdk.Options)) (*lambdasdk.InvokeOutput, error)
}

// Warmer 响应预热事件，可并发调用自身以预热更多实例
type Warmer struct {
	invoker      Invoker
	functionName string
	delay        time.Duration
	logger       *logger.Logger
}

func NewWarmer(invoker Invoker, functionName string, lgr *logger.Logger) *Warmer {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Warmer{
		invoker:      invoker,
		functionName: functionName,
		delay:        WarmupDelay,
		logger:       lgr.Named("warmup"),
	}
}

// NewAWSWarmer 使用默认 AWS 凭证链创建 Warmer，函数名取自 AWS_LAMBDA_FUNCTION_NAME
func NewAWSWarmer(ctx context.Context, lgr *logger.Logger) (*Warmer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewWarmer(lambdasdk.NewFromConfig(cfg), os.Getenv("AWS_LAMBDA_FUNCTION_NAME"), lgr), nil
}

// IsWarmupEvent 判断是否为预热事件
func IsWarmupEvent(event json.RawMessage) (*WarmupEvent, bool) {
	var warmup WarmupEvent
	if err := json.Unmarshal(event, &warmup); err != nil {
		return nil, false
	}
	if warmup.Source != WarmupSource {
		return nil, false
	}
	if warmup.Concurrency < 0 {
		warmup.Concurrency = 0
	}
	return &warmup, true
}

// Handle 记录本实例，并再自调用 Concurrency 次
func (w *Warmer) Handle(ctx context.Context, warmup *WarmupEvent) (*WarmupResponse, error) {
	warmed := 1

	if warmup.Concurrency > 0 && w.invoker != nil && w.functionName != "" {
		if err := w.selfInvoke(ctx, warmup.Concurrency); err != nil {
			w.logger.Warn("warmup self-invoke failed", zap.Error(err))
		} else {
			warmed += warmup.Concurrency
		}
	}

	if w.delay > 0 {
		time.Sleep(w.delay)
	}

	return &WarmupResponse{Status: "warm", InstancesWarmed: warmed}, nil
}

func (w *Warmer) selfInvoke(ctx context.Context, count int) error {
	// 子调用并发为 0，避免递归
	payload, err := json.Marshal(WarmupEvent{Source: WarmupSource})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			_, err := w.invoker.Invoke(ctx, &lambdasdk.InvokeInput{
				FunctionName:   aws.String(w.functionName),
				InvocationType: types.InvocationTypeEvent,
				Payload:        payload,
			})
			return err
		})
	}
	return g.Wait()
}
