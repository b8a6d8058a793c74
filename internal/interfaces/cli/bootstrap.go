package cli

import (
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/GeoCluster-Insight/internal/application/geodata"
	"github.com/turtacn/GeoCluster-Insight/internal/config"
	"github.com/turtacn/GeoCluster-Insight/internal/domain/dataset"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/cache"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	prommetrics "github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/ncbi"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/clusterer"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/projection"
	"github.com/turtacn/GeoCluster-Insight/internal/intelligence/vectorizer"
)

// app bundles the wired components shared by the serve and fetch commands.
type app struct {
	cfg       *config.Config
	logger    logging.Logger
	collector prommetrics.MetricsCollector
	metrics   *prommetrics.AppMetrics
	service   geodata.Service
	redis     *redis.Client
}

// buildApp assembles the full dependency graph from configuration. Metrics
// are only constructed when enabled; the service tolerates nil metrics.
func buildApp(cfg *config.Config) (*app, error) {
	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prommetrics.NewMetricsCollector(prommetrics.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			Subsystem:            "api",
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return nil, err
		}
		a.collector = collector
		a.metrics = prommetrics.NewAppMetrics(collector)
	}

	var (
		linkCache   cache.TTLStore[[]string]
		detailCache cache.TTLStore[dataset.Record]
	)
	if cfg.Cache.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		linkCache = cache.NewRedisStore[[]string](a.redis, logger, cfg.Cache.KeyPrefix+":link:", cfg.Cache.TTL)
		detailCache = cache.NewRedisStore[dataset.Record](a.redis, logger, cfg.Cache.KeyPrefix+":detail:", cfg.Cache.TTL)
	} else {
		linkCache = cache.NewExpiring[[]string](cfg.Cache.TTL)
		detailCache = cache.NewExpiring[dataset.Record](cfg.Cache.TTL)
	}

	client := ncbi.NewClient(
		ncbi.NewLimiter(cfg.NCBI.RequestDelay),
		linkCache,
		detailCache,
		logger,
		ncbi.WithBaseURL(cfg.NCBI.BaseURL),
		ncbi.WithIdentity(cfg.NCBI.Tool, cfg.NCBI.Email),
		ncbi.WithHTTPClient(&http.Client{Timeout: cfg.NCBI.HTTPTimeout}),
		ncbi.WithObserver(&prommetrics.EutilsObserver{Metrics: a.metrics}),
	)

	vec := vectorizer.New(logger,
		vectorizer.WithMaxFeatures(cfg.Analysis.MaxFeatures),
		vectorizer.WithDocFreqBounds(cfg.Analysis.MinDocFreq, cfg.Analysis.MaxDocShare),
	)
	est := clusterer.NewEstimator(logger, clusterer.WithMaxClusters(cfg.Analysis.MaxClusters))
	red := projection.NewReducer(logger, projection.WithSeed(cfg.Analysis.Seed))
	builder := geodata.NewGraphBuilder(logger)

	a.service = geodata.NewService(client, vec, est, red, builder, a.metrics, logger,
		geodata.WithResultCache(cfg.Cache.TTL, cfg.Cache.MaxSize))
	return a, nil
}

// close releases external resources held by the application.
func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("closing redis client", logging.Err(err))
		}
	}
}
