package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartrecipe/backend/internal/api"
	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/router"
	"github.com/smartrecipe/backend/internal/testhelpers"
)

type pingHandler struct{}

func (pingHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, api.Response{Code: http.StatusOK, Message: "pong"})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
}

func setupRouter(t *testing.T, opts router.Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	opts.Logger = zap.NewNop()
	opts.Metrics = middleware.NewMetrics(registry)
	if opts.CORSOrigins == nil {
		opts.CORSOrigins = []string{"http://localhost:5173"}
	}
	db := testhelpers.NewTestDB(t)
	return router.SetupRouter(opts, api.NewSystemHandler(db, registry, zap.NewNop()), pingHandler{})
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestSetupRouterMountsHandlers(t *testing.T) {
	engine := setupRouter(t, router.Options{})

	w := serve(engine, "GET", "/api/ping")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, "GET", "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoutesUseEnvelope(t *testing.T) {
	engine := setupRouter(t, router.Options{})

	w := serve(engine, "GET", "/api/nope")
	require.Equal(t, http.StatusNotFound, w.Code)
	var resp api.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "not found", resp.Message)

	w = serve(engine, "DELETE", "/api/ping")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "method not allowed", resp.Message)
}

func TestPanicsBecomeServerErrors(t *testing.T) {
	engine := setupRouter(t, router.Options{})

	w := serve(engine, "GET", "/api/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestMetricsEndpointExposesRequests(t *testing.T) {
	engine := setupRouter(t, router.Options{})

	serve(engine, "GET", "/api/ping")
	w := serve(engine, "GET", "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/api/ping",status="200"} 1`)
}

func TestMediaDirectoryIsServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uploads", "a.png"), []byte("png"), 0o644))

	engine := setupRouter(t, router.Options{MediaDir: dir, MediaURL: "/media"})

	w := serve(engine, "GET", "/media/uploads/a.png")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}
