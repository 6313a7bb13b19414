package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/handler/health"
	promhandler "github.com/jwalitptl/clinic-api/internal/handler/prometheus"
	"github.com/jwalitptl/clinic-api/internal/handler/schedule"
	"github.com/jwalitptl/clinic-api/internal/middleware"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/pkg/logger"
	"github.com/jwalitptl/clinic-api/pkg/metrics"
)

type anonymous struct{}

func (anonymous) GetSession(context.Context, string) (*model.Session, error) { return nil, nil }

// sessionEcho reports whether a session reached the handler.
type sessionEcho struct{}

func (sessionEcho) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/whoami", func(c *gin.Context) {
		if middleware.SessionFrom(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "authenticated")
	})
}

func newTestRouter(cfg RouterConfig) *Router {
	cfg.Mode = gin.TestMode
	r := NewRouter(cfg, logger.Nop(), middleware.NewAuthMiddleware(anonymous{}),
		promhandler.New(metrics.NewMetrics("test")),
		Handlers{
			Health:   health.NewHandler(nil),
			Schedule: schedule.NewHandler(),
			Doctor:   sessionEcho{},
		})
	r.Setup()
	return r
}

func get(r *Router, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.1.1.1:5000"
	req.Header.Set("Authorization", "Bearer whatever")
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(RouterConfig{
		RequestTimeout: time.Second,
		CORSConfig:     middleware.DefaultCORSConfig(nil),
		MetricsPath:    "/metrics",
	})

	w := get(r, "/api/v1/health/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/time-options").Code)
	assert.Equal(t, "anonymous", get(r, "/api/v1/whoami").Body.String())

	w = get(r, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")

	w = get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_http_requests_total"), w.Body.String())
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter(RouterConfig{
		RateLimitEnabled: true,
		RateLimit:        0.001,
		RateBurst:        1,
		CORSConfig:       middleware.DefaultCORSConfig(nil),
	})

	assert.Equal(t, http.StatusOK, get(r, "/api/v1/health/live").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/api/v1/health/live").Code)
}
