package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/lk2023060901/ai-translator-backend/internal/pkg/errors"
)

const (
	HeaderRequestID = "X-Request-ID"
	HeaderSessionID = "X-Session-ID"
)

// MiddlewareOptions configures the logger middleware
type MiddlewareOptions struct {
	// SkipPaths is a list of paths to skip logging
	SkipPaths []string
	// SkipPathPrefixes is a list of path prefixes to skip logging
	SkipPathPrefixes []string
}

// GinLogger returns a gin middleware for logging HTTP requests
func GinLogger(logger *Logger) gin.HandlerFunc {
	return GinLoggerWithConfig(logger, MiddlewareOptions{})
}

// GinLoggerWithConfig returns a gin middleware with custom configuration.
// It also propagates request and session IDs into the request context.
func GinLoggerWithConfig(logger *Logger, opts MiddlewareOptions) gin.HandlerFunc {
	skipPaths := make(map[string]bool, len(opts.SkipPaths))
	for _, path := range opts.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := WithRequestID(c.Request.Context(), requestID)
		sessionID := c.GetHeader(HeaderSessionID)
		if sessionID != "" {
			ctx = WithSessionID(ctx, sessionID)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, requestID)

		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}
		for _, prefix := range opts.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()
		query := c.Request.URL.RawQuery

		c.Next()

		statusCode := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", statusCode),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
		}
		if sessionID != "" {
			fields = append(fields, zap.String("session_id", sessionID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case statusCode >= 500:
			logger.Error("HTTP Request", fields...)
		case statusCode >= 400:
			logger.Warn("HTTP Request", fields...)
		default:
			logger.Info("HTTP Request", fields...)
		}
	}
}

// GinRecovery returns a gin middleware for recovering from panics
func GinRecovery(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered",
					zap.String("request_id", GetRequestID(c.Request.Context())),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", err),
					zap.Stack("stacktrace"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    apperrors.ErrInternalServer,
					"message": apperrors.GetMessage(apperrors.ErrInternalServer),
					"data":    struct{}{},
				})
			}
		}()

		c.Next()
	}
}
