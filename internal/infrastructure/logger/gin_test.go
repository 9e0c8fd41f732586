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

func serveLogged(t *testing.T, level zapcore.Level, register func(*gin.Engine), method, target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(level)
	engine := gin.New()
	engine.Use(GinMiddleware(zap.New(core)))
	register(engine)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	engine.ServeHTTP(w, req)
	return w, recorded
}

func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	entries := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, entries, 1)
	return entries[0]
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.InfoLevel, func(e *gin.Engine) {
		e.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	}, http.MethodGet, "/products?category=mates&page=2")

	assert.Equal(t, http.StatusOK, w.Code)

	entry := requestEntry(t, recorded)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/products", fields["path"])
	assert.Equal(t, "category=mates&page=2", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Contains(t, fields, "latency")
	assert.Contains(t, fields, "client_ip")
}

func TestGinMiddlewareLevelsFollowStatus(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusUnprocessableEntity, zapcore.WarnLevel},
		{http.StatusBadGateway, zapcore.ErrorLevel},
	}
	for _, tc := range cases {
		_, recorded := serveLogged(t, zapcore.DebugLevel, func(e *gin.Engine) {
			e.GET("/x", func(c *gin.Context) { c.Status(tc.status) })
		}, http.MethodGet, "/x")
		assert.Equal(t, tc.level, requestEntry(t, recorded).Level, "status %d", tc.status)
	}
}

func TestGinMiddlewareSkipsProbes(t *testing.T) {
	w, recorded := serveLogged(t, zapcore.DebugLevel, func(e *gin.Engine) {
		e.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	}, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, recorded.All())
}

func TestGinMiddlewareCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc")
		c.Next()
	})
	engine.Use(GinMiddleware(zap.New(core)))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, "req-abc", requestEntry(t, recorded).ContextMap()["request_id"])
}

func TestGinMiddlewareExposesLoggerToHandlers(t *testing.T) {
	var fromGin, fromCtx *zap.Logger
	serveLogged(t, zapcore.InfoLevel, func(e *gin.Engine) {
		e.GET("/x", func(c *gin.Context) {
			fromGin = GetGinLogger(c)
			fromCtx = FromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})
	}, http.MethodGet, "/x")

	require.NotNil(t, fromGin)
	assert.Same(t, fromGin, fromCtx)
}

func TestGetGinLoggerOutsideMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got *zap.Logger
	engine := gin.New()
	engine.GET("/x", func(c *gin.Context) {
		got = GetGinLogger(c)
		c.Status(http.StatusOK)
	})
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	require.NotNil(t, got)
	assert.NotPanics(t, func() { got.Info("safe") })
}

func TestRecoveryLogsPanicAndReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)
	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/boom", func(c *gin.Context) { panic("kaput") })

	w := httptest.NewRecorder()
	require.NotPanics(t, func() {
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	entries := recorded.FilterMessage("Panic recovered").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/boom", entries[0].ContextMap()["path"])
}
