package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/database"
)

// apiModules are the prefixes listed by the API root.
var apiModules = []string{"user", "ingredient", "recipe", "shopping-list", "community", "nutrition"}

// SystemHandler serves the API root, health and metrics endpoints.
type SystemHandler struct {
	db       *gorm.DB
	gatherer prometheus.Gatherer
	log      *zap.Logger
}

func NewSystemHandler(db *gorm.DB, gatherer prometheus.Gatherer, log *zap.Logger) *SystemHandler {
	return &SystemHandler{db: db, gatherer: gatherer, log: log}
}

func (h *SystemHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", h.HealthCheck)
	router.GET("/api/", h.Root)
	if h.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}

// Root lists the absolute URL of every module.
func (h *SystemHandler) Root(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host + "/api/"
	data := make(map[string]string, len(apiModules)+1)
	for _, m := range apiModules {
		data[strings.ReplaceAll(m, "-", "_")] = base + m + "/"
	}
	data["token_refresh"] = base + "token/refresh"
	ok(c, "success", data)
}

// HealthCheck pings the database.
func (h *SystemHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.log.Error("health check failed", zap.Error(err))
		respond(c, http.StatusServiceUnavailable, "unhealthy", gin.H{"status": "unhealthy", "database": "unreachable"})
		return
	}
	ok(c, "healthy", gin.H{"status": "ok", "database": "ok"})
}
