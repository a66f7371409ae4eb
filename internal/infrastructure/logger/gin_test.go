package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func performRequest(t *testing.T, handler gin.HandlerFunc, middleware ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware...)
	router.GET("/api/v1/items", handler)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?page=2", nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGinMiddleware_LogsSuccessAtInfo(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	performRequest(t, func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, GinMiddleware(zap.New(core)))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, "HTTP Request", logs[0].Message)

	fields := logs[0].ContextMap()
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/api/v1/items", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "page=2", fields["query"])
}

func TestGinMiddleware_LogsClientErrorAtWarn(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	performRequest(t, func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	}, GinMiddleware(zap.New(core)))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGinMiddleware_LogsServerErrorAtError(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	performRequest(t, func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	}, GinMiddleware(zap.New(core)))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
}

func TestGinMiddleware_CarriesRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	setRequestID := func(c *gin.Context) {
		c.Set("request_id", "req-55")
		c.Next()
	}

	performRequest(t, func(c *gin.Context) {
		c.Status(http.StatusOK)
	}, setRequestID, GinMiddleware(zap.New(core)))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-55", logs[0].ContextMap()["request_id"])
}

func TestGinMiddleware_ExposesRequestLogger(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	performRequest(t, func(c *gin.Context) {
		GetGinLogger(c).Info("loading balances")
		c.Status(http.StatusOK)
	}, GinMiddleware(zap.New(core)))

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "loading balances", logs[0].Message)
	assert.Equal(t, "/api/v1/items", logs[0].ContextMap()["path"])
}

func TestRecovery_LogsPanicAndReturns500(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	w := performRequest(t, func(c *gin.Context) {
		panic("boom")
	}, Recovery(zap.New(core)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "Panic recovered", logs[0].Message)
	fields := logs[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "/api/v1/items", fields["path"])
}

func TestGetGinLogger_FallsBackToNop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	log := GetGinLogger(c)

	require.NotNil(t, log)
	log.Info("ignored")
}
