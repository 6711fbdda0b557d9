package modules

import (
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/educatalog/internal/interface/middleware"
	"github.com/oksasatya/educatalog/internal/metrics"
)

// DebugModule serves liveness and, when enabled, the metrics endpoints.
type DebugModule struct {
	RDB      *redis.Client
	Gatherer prometheus.Gatherer
	Enabled  bool
}

func NewDebugModule(rdb *redis.Client, gatherer prometheus.Gatherer, enabled bool) *DebugModule {
	return &DebugModule{RDB: rdb, Gatherer: gatherer, Enabled: enabled}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if !m.Enabled {
		return
	}
	// scrapers on private networks bypass the per-IP limit
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Gatherer != nil {
		rg.GET("/metrics", rl, gin.WrapH(metrics.Handler(m.Gatherer)))
	}
}
