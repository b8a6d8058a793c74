package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeoCluster-Insight/internal/application/geodata"
	"github.com/turtacn/GeoCluster-Insight/internal/config"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeoCluster-Insight/internal/interfaces/http/handlers"
	"github.com/turtacn/GeoCluster-Insight/internal/interfaces/http/middleware"
)

// RouterDeps carries everything the router wires together.
type RouterDeps struct {
	Config    *config.Config
	Service   geodata.Service
	Logger    logging.Logger
	Metrics   *prommetrics.AppMetrics
	Collector prommetrics.MetricsCollector
	Version   string
}

// NewRouter builds the gin engine with middleware, API routes, probes and
// the metrics endpoint.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(ginMode(deps.Config.Server.Mode))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogging(deps.Logger, deps.Metrics, "/healthz", "/readyz", deps.Config.Metrics.Path))

	if deps.Config.RateLimit.Enabled {
		limiter := middleware.NewTokenBucketLimiter(
			deps.Config.RateLimit.RequestsPerSecond,
			deps.Config.RateLimit.Burst,
		)
		router.Use(middleware.RateLimit(limiter, deps.Logger))
	}

	health := handlers.NewHealthHandler(deps.Version)
	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)

	if deps.Config.Metrics.Enabled && deps.Collector != nil {
		router.GET(deps.Config.Metrics.Path, gin.WrapH(deps.Collector.Handler()))
	}

	geo := handlers.NewGeoDataHandler(deps.Service, deps.Logger)
	api := router.Group("/api")
	{
		api.POST("/fetch-geo-data", geo.FetchGeoData)
	}

	return router
}

func ginMode(mode string) string {
	switch mode {
	case "debug":
		return gin.DebugMode
	case "test":
		return gin.TestMode
	default:
		return gin.ReleaseMode
	}
}
