package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartrecipe/backend/internal/api"
	"github.com/smartrecipe/backend/internal/middleware"
)

// RouteRegistrar is implemented by every api handler.
type RouteRegistrar interface {
	RegisterRoutes(router *gin.RouterGroup)
}

// Options holds the cross-cutting pieces of the engine.
type Options struct {
	Logger      *zap.Logger
	Metrics     *middleware.Metrics
	CORSOrigins []string
	// MediaDir is served under MediaURL when set.
	MediaDir string
	MediaURL string
}

// SetupRouter configures the application routes. system is mounted at the
// root; every other handler is mounted under /api.
func SetupRouter(opts Options, system RouteRegistrar, handlers ...RouteRegistrar) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.Recovery(log), middleware.RequestLogger(log))
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Handler())
	}
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, api.Response{Code: http.StatusNotFound, Message: "not found"})
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, api.Response{Code: http.StatusMethodNotAllowed, Message: "method not allowed"})
	})
	router.HandleMethodNotAllowed = true

	if system != nil {
		system.RegisterRoutes(&router.RouterGroup)
	}
	v := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(v)
	}

	if opts.MediaDir != "" && opts.MediaURL != "" {
		router.Static(opts.MediaURL, opts.MediaDir)
	}
	return router
}
