package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/lk2023060901/ai-translator-backend/internal/conf"
	"github.com/lk2023060901/ai-translator-backend/internal/pkg/logger"
)

// TranslatorService gRPC 健康检查中使用的服务名
const TranslatorService = "translator.v1.Translator"

const healthSyncInterval = 5 * time.Second

// GRPCServer gRPC 服务器（健康检查与反射）
type GRPCServer struct {
	config       *conf.Config
	logger       *logger.Logger
	grpcServer   *grpc.Server
	healthServer *health.Server
	health       *Health
	ctx          context.Context
	stop         context.CancelFunc
}

// NewGRPCServer 创建 gRPC 服务器
func NewGRPCServer(config *conf.Config, log *logger.Logger, h *Health) *GRPCServer {
	logOpts := logger.GRPCInterceptorOptions{
		SkipMethods: []string{"/grpc.health.v1.Health/Check"},
	}
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RecoveryInterceptor(log),
			logger.UnaryServerInterceptorWithConfig(log, logOpts),
		),
		grpc.ChainStreamInterceptor(
			logger.StreamRecoveryInterceptor(log),
			logger.StreamServerInterceptorWithConfig(log, logOpts),
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// 启用反射（用于 grpcurl 等工具）
	reflection.Register(grpcServer)

	ctx, cancel := context.WithCancel(context.Background())

	return &GRPCServer{
		config:       config,
		logger:       log,
		grpcServer:   grpcServer,
		healthServer: healthServer,
		health:       h,
		ctx:          ctx,
		stop:         cancel,
	}
}

// SyncHealth 按健康检查结果更新 Serving 状态
func (s *GRPCServer) SyncHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.health.Check(ctx).Status != StatusOK {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.healthServer.SetServingStatus("", status)
	s.healthServer.SetServingStatus(TranslatorService, status)
}

// Start 启动 gRPC 服务器
func (s *GRPCServer) Start() error {
	addr := s.config.Server.GRPCAddr()

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	s.SyncHealth(s.ctx)
	go s.watchHealth(s.ctx)

	s.logger.Info("starting gRPC server", zap.String("addr", addr))

	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}

	return nil
}

func (s *GRPCServer) watchHealth(ctx context.Context) {
	ticker := time.NewTicker(healthSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncHealth(ctx)
		}
	}
}

// Stop 停止 gRPC 服务器
func (s *GRPCServer) Stop() {
	s.logger.Info("stopping gRPC server")
	s.stop()
	s.healthServer.Shutdown()
	s.grpcServer.GracefulStop()
}
