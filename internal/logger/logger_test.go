package logger

import (
	"bytes"
	"encoding/json"
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

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("bogus"))
}

func TestForEnvironment(t *testing.T) {
	assert.Equal(t, Config{Level: "info", Format: "json"}, ForEnvironment("production", "", ""))
	assert.Equal(t, Config{Level: "debug", Format: "console"}, ForEnvironment("development", "debug", ""))
	assert.Equal(t, Config{Level: "info", Format: "json"}, ForEnvironment("development", "", "JSON"))
	assert.Equal(t, Config{Level: "warn", Format: "console"}, ForEnvironment("production", "warn", "console"))
}

func TestNewWithSinkWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithSink(Config{Level: "info", Format: "json"}, zapcore.AddSync(&buf))
	l.Debug("hidden")
	l.Info("shown", zap.String("k", "v"))
	require.NoError(t, l.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "v", entry["k"])
}

func TestMiddlewareLogsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	r := gin.New()
	r.Use(Middleware(base), Recovery(base))
	r.GET("/ok", func(c *gin.Context) {
		FromContext(c, nil).Info("inside")
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	inside := logs.FilterMessage("inside").All()
	require.Len(t, inside, 1)
	assert.Equal(t, "req-1", inside[0].ContextMap()["request_id"])
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 2, logs.FilterMessage("http request").Len())
	assert.Equal(t, 1, logs.FilterMessage("http request").FilterLevelExact(zapcore.ErrorLevel).Len())
}
