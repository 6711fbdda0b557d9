package middleware_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/educatalog/internal/interface/middleware"
	"github.com/oksasatya/educatalog/pkg/response"
)

func TestRequestID(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(response.RequestIDKey)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	t.Parallel()
	r := gin.New()
	r.GET("/", middleware.RateLimit(nil, 1, time.Minute, middleware.KeyByIP(), nil), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRealIPAndAllowPrivate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		proxies  []string
		platform string
		remote   string
		headers  map[string]string
		want     string
	}{
		{name: "direct private peer", remote: "10.0.0.5:4000", want: "private"},
		{name: "direct public peer", remote: "203.0.113.9:4000", want: "public"},
		{name: "untrusted peer cannot forge forwarded private", remote: "203.0.113.9:4000",
			headers: map[string]string{"X-Forwarded-For": "10.1.2.3"}, want: "public"},
		{name: "untrusted peer cannot forge cloudflare header", remote: "203.0.113.9:4000",
			headers: map[string]string{"CF-Connecting-IP": "127.0.0.1"}, want: "public"},
		{name: "trusted proxy forwards private client", proxies: []string{"192.0.2.1"}, remote: "192.0.2.1:4000",
			headers: map[string]string{"X-Forwarded-For": "10.1.2.3"}, want: "private"},
		{name: "trusted proxy uses right-most untrusted hop", proxies: []string{"192.0.2.1"}, remote: "192.0.2.1:4000",
			headers: map[string]string{"X-Forwarded-For": "10.1.2.3, 203.0.113.7"}, want: "public"},
		{name: "cloudflare platform header", platform: gin.PlatformCloudflare, remote: "198.51.100.4:4000",
			headers: map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "10.1.2.3"}, want: "public"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			require.NoError(t, middleware.ConfigureProxies(r, tt.proxies, tt.platform))
			r.Use(middleware.RealIP())
			allow := middleware.AllowPrivateIP()
			r.GET("/", func(c *gin.Context) {
				if allow(c) {
					c.String(http.StatusOK, "private")
					return
				}
				c.String(http.StatusOK, "public")
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}

	assert.Error(t, middleware.ConfigureProxies(gin.New(), []string{"not-an-ip"}, ""))
}

func TestAccessLog(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware(), middleware.AccessLog(logger, false))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Empty(t, buf.String(), "quiet mode logs only failures")

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	out := buf.String()
	assert.Contains(t, out, `"path":"/boom"`)
	assert.Contains(t, out, `"status":500`)
	assert.Contains(t, out, assert.AnError.Error())
}
