package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	loggerKey      contextKey = "logger"
	requestIDKey   contextKey = "request_id"
	sessionIDKey   contextKey = "session_id"
	operationIDKey contextKey = "operation_id"
)

// WithContext returns a logger with fields from context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}

	fields := make([]zap.Field, 0, 3)
	if v := GetRequestID(ctx); v != "" {
		fields = append(fields, zap.String("request_id", v))
	}
	if v := GetSessionID(ctx); v != "" {
		fields = append(fields, zap.String("session_id", v))
	}
	if v := GetOperationID(ctx); v != "" {
		fields = append(fields, zap.String("operation_id", v))
	}

	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

// FromContext extracts logger from context, returns the global logger if not found
func FromContext(ctx context.Context) *Logger {
	if ctx == nil {
		return L()
	}

	if lg, ok := ctx.Value(loggerKey).(*Logger); ok && lg != nil {
		return lg.WithContext(ctx)
	}

	return L().WithContext(ctx)
}

// ToContext adds logger to context
func ToContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// WithRequestID adds request ID to context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithSessionID adds the client session ID to context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// WithOperationID adds a translation operation ID to context
func WithOperationID(ctx context.Context, operationID string) context.Context {
	return context.WithValue(ctx, operationIDKey, operationID)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetSessionID extracts session ID from context
func GetSessionID(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// GetOperationID extracts operation ID from context
func GetOperationID(ctx context.Context) string {
	if v, ok := ctx.Value(operationIDKey).(string); ok {
		return v
	}
	return ""
}

// Convenience methods for context-aware logging
func DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Debug(msg, fields...)
}

func InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

func WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

func ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Error(msg, fields...)
}
