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

func requestLogEntry(t *testing.T, recorded *observer.ObservedLogs) *observer.LoggedEntry {
	t.Helper()
	logs := recorded.All()
	for i := range logs {
		if logs[i].Message == "HTTP Request" {
			return &logs[i]
		}
	}
	require.FailNow(t, "no HTTP Request entry logged")
	return nil
}

func serveWithMiddleware(level zapcore.Level, register func(*gin.Engine), req *http.Request) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	register(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w, recorded
}

func TestGinMiddleware_LogLevels(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{name: "success logs info", status: http.StatusOK, level: zapcore.InfoLevel},
		{name: "client error logs warn", status: http.StatusBadRequest, level: zapcore.WarnLevel},
		{name: "server error logs error", status: http.StatusInternalServerError, level: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/members", nil)
			w, recorded := serveWithMiddleware(zapcore.InfoLevel, func(r *gin.Engine) {
				r.GET("/members", func(c *gin.Context) {
					c.JSON(tt.status, gin.H{})
				})
			}, req)

			assert.Equal(t, tt.status, w.Code)
			entry := requestLogEntry(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddleware_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	// Simulates the RequestID middleware running first.
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-abc-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/members", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/members", nil)
	router.ServeHTTP(w, req)

	entry := requestLogEntry(t, recorded)
	found := false
	for _, field := range entry.Context {
		if field.Key == "request_id" {
			found = true
			assert.Equal(t, "req-abc-123", field.String)
		}
	}
	assert.True(t, found, "request_id should be in log fields")
}

func TestGinMiddleware_QueryAndFields(t *testing.T) {
	req, _ := http.NewRequest("GET", "/savings/transactions?type=DEPOSIT&page=1", nil)
	req.Header.Set("User-Agent", "Test-Agent/1.0")
	_, recorded := serveWithMiddleware(zapcore.InfoLevel, func(r *gin.Engine) {
		r.GET("/savings/transactions", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})
	}, req)

	entry := requestLogEntry(t, recorded)
	fields := make(map[string]zapcore.Field)
	for _, f := range entry.Context {
		fields[f.Key] = f
	}

	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path"} {
		assert.Contains(t, fields, key)
	}
	require.Contains(t, fields, "query")
	assert.Contains(t, fields["query"].String, "type=DEPOSIT")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	t.Run("returns request-scoped logger", func(t *testing.T) {
		var got *zap.Logger
		req, _ := http.NewRequest("GET", "/members", nil)
		serveWithMiddleware(zapcore.InfoLevel, func(r *gin.Engine) {
			r.GET("/members", func(c *gin.Context) {
				got = GetGinLogger(c)
				c.JSON(http.StatusOK, gin.H{})
			})
		}, req)
		assert.NotNil(t, got)
	})

	t.Run("returns nop when middleware absent", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		var got *zap.Logger

		router := gin.New()
		router.GET("/members", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.JSON(http.StatusOK, gin.H{})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/members", nil)
		router.ServeHTTP(w, req)

		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("nop") })
	})
}
