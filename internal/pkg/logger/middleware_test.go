package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinRecovery(Nop()), GinLoggerWithConfig(Nop(), MiddlewareOptions{SkipPaths: []string{"/health"}}))
	r.GET("/ids", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.String(http.StatusOK, GetRequestID(ctx)+"|"+GetSessionID(ctx))
	})
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c.Request.Context()))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestGinLoggerPropagatesIDs(t *testing.T) {
	r := newTestEngine()

	req := httptest.NewRequest(http.MethodGet, "/ids", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	req.Header.Set(HeaderSessionID, "sess-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1|sess-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get(HeaderRequestID))

	// 跳过日志的路径仍然生成请求 ID
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))
}

func TestGinRecovery(t *testing.T) {
	w := httptest.NewRecorder()
	newTestEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":1000,"message":"Internal server error","data":{}}`, w.Body.String())
}
