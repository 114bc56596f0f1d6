package logger

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	metadataRequestID = "x-request-id"
	metadataSessionID = "x-session-id"
)

// GRPCInterceptorOptions configures the gRPC interceptors
type GRPCInterceptorOptions struct {
	// SkipMethods are full method names that are not logged, e.g. "/grpc.health.v1.Health/Check"
	SkipMethods []string
}

func (o GRPCInterceptorOptions) skipSet() map[string]bool {
	skip := make(map[string]bool, len(o.SkipMethods))
	for _, method := range o.SkipMethods {
		skip[method] = true
	}
	return skip
}

// UnaryServerInterceptor returns a unary interceptor that logs every call
func UnaryServerInterceptor(logger *Logger) grpc.UnaryServerInterceptor {
	return UnaryServerInterceptorWithConfig(logger, GRPCInterceptorOptions{})
}

// UnaryServerInterceptorWithConfig returns a unary logging interceptor.
// Request and session IDs are taken from incoming metadata and stored in the context.
func UnaryServerInterceptorWithConfig(logger *Logger, opts GRPCInterceptorOptions) grpc.UnaryServerInterceptor {
	skip := opts.skipSet()

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		ctx = withIncomingIDs(ctx)
		if skip[info.FullMethod] {
			return handler(ctx, req)
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		logCall(ctx, logger, "gRPC call", info.FullMethod, start, err)
		return resp, err
	}
}

// StreamServerInterceptorWithConfig logs a stream once it ends
func StreamServerInterceptorWithConfig(logger *Logger, opts GRPCInterceptorOptions) grpc.StreamServerInterceptor {
	skip := opts.skipSet()

	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx := withIncomingIDs(ss.Context())
		wrapped := &contextStream{ServerStream: ss, ctx: ctx}
		if skip[info.FullMethod] {
			return handler(srv, wrapped)
		}

		start := time.Now()
		err := handler(srv, wrapped)
		logCall(ctx, logger, "gRPC stream", info.FullMethod, start, err)
		return err
	}
}

// RecoveryInterceptor converts handler panics into codes.Internal
func RecoveryInterceptor(logger *Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ctx, logger, info.FullMethod, r)
			}
		}()

		return handler(ctx, req)
	}
}

// StreamRecoveryInterceptor is the streaming counterpart of RecoveryInterceptor
func StreamRecoveryInterceptor(logger *Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = recovered(ss.Context(), logger, info.FullMethod, r)
			}
		}()

		return handler(srv, ss)
	}
}

func recovered(ctx context.Context, logger *Logger, method string, r interface{}) error {
	logger.Error("gRPC panic recovered",
		zap.String("request_id", GetRequestID(ctx)),
		zap.String("method", method),
		zap.Any("panic", r),
		zap.Stack("stacktrace"),
	)
	return status.Errorf(codes.Internal, "internal server error: %v", r)
}

func logCall(ctx context.Context, logger *Logger, msg, method string, start time.Time, err error) {
	st, _ := status.FromError(err)
	fields := []zap.Field{
		zap.String("request_id", GetRequestID(ctx)),
		zap.String("method", method),
		zap.String("service", path.Dir(method)[1:]),
		zap.String("rpc", path.Base(method)),
		zap.Duration("latency", time.Since(start)),
		zap.String("code", st.Code().String()),
	}
	if sessionID := GetSessionID(ctx); sessionID != "" {
		fields = append(fields, zap.String("session_id", sessionID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}

	switch st.Code() {
	case codes.OK:
		logger.Info(msg, fields...)
	case codes.Canceled, codes.DeadlineExceeded, codes.NotFound, codes.InvalidArgument,
		codes.ResourceExhausted, codes.Unavailable:
		// 客户端或上游可恢复的情况
		logger.Warn(msg, fields...)
	default:
		logger.Error(msg, fields...)
	}
}

// withIncomingIDs 从 metadata 读取请求 ID（缺省时生成）与会话 ID
func withIncomingIDs(ctx context.Context) context.Context {
	requestID := GetRequestID(ctx)
	sessionID := GetSessionID(ctx)

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(metadataRequestID); requestID == "" && len(values) > 0 {
			requestID = values[0]
		}
		if values := md.Get(metadataSessionID); sessionID == "" && len(values) > 0 {
			sessionID = values[0]
		}
	}

	if requestID == "" {
		requestID = uuid.New().String()
	}
	ctx = WithRequestID(ctx, requestID)
	if sessionID != "" {
		ctx = WithSessionID(ctx, sessionID)
	}
	return ctx
}

type contextStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *contextStream) Context() context.Context {
	return s.ctx
}
