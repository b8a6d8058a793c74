package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/prometheus"
)

// slowThreshold is the duration above which a request is logged as slow. The
// analysis pipeline legitimately takes seconds for large batches, so this is
// generous.
const slowThreshold = 30 * time.Second

// RequestLogging logs one line per request and records HTTP metrics. Probe
// paths are skipped to keep the log quiet.
func RequestLogging(logger logging.Logger, metrics *prommetrics.AppMetrics, skipPaths ...string) gin.HandlerFunc {
	log := logger.Named("http")
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		prommetrics.RecordHTTPRequest(metrics, c.Request.Method, path, status, duration)

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		case duration > slowThreshold:
			log.Warn("slow request", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}
