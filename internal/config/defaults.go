// Package config provides configuration loading, defaults, and validation
// for the GeoCluster-Insight service.
package config

import "time"

// Default value constants.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultNCBIBaseURL      = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"
	DefaultNCBITool         = "geo-dataset-clustering"
	DefaultNCBIRequestDelay = 340 * time.Millisecond
	DefaultNCBIHTTPTimeout  = 30 * time.Second

	DefaultCacheTTL       = 24 * time.Hour
	DefaultCacheMaxSize   = 128
	DefaultCacheKeyPrefix = "geocluster"

	DefaultMaxClusters = 10
	DefaultMaxFeatures = 5000
	DefaultMinDocFreq  = 2
	DefaultMaxDocShare = 0.7
	DefaultSeed        = 42

	DefaultRateLimitRPS   = 5.0
	DefaultRateLimitBurst = 10

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "geocluster"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields already set by the caller are left unchanged so explicit
// configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.NCBI.BaseURL == "" {
		cfg.NCBI.BaseURL = DefaultNCBIBaseURL
	}
	if cfg.NCBI.Tool == "" {
		cfg.NCBI.Tool = DefaultNCBITool
	}
	if cfg.NCBI.RequestDelay == 0 {
		cfg.NCBI.RequestDelay = DefaultNCBIRequestDelay
	}
	if cfg.NCBI.HTTPTimeout == 0 {
		cfg.NCBI.HTTPTimeout = DefaultNCBIHTTPTimeout
	}

	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = DefaultCacheMaxSize
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}

	if cfg.Analysis.MaxClusters == 0 {
		cfg.Analysis.MaxClusters = DefaultMaxClusters
	}
	if cfg.Analysis.MaxFeatures == 0 {
		cfg.Analysis.MaxFeatures = DefaultMaxFeatures
	}
	if cfg.Analysis.MinDocFreq == 0 {
		cfg.Analysis.MinDocFreq = DefaultMinDocFreq
	}
	if cfg.Analysis.MaxDocShare == 0 {
		cfg.Analysis.MaxDocShare = DefaultMaxDocShare
	}
	if cfg.Analysis.Seed == 0 {
		cfg.Analysis.Seed = DefaultSeed
	}

	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stdout"}
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}
