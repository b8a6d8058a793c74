// Package config defines all configuration structures for the
// GeoCluster-Insight service. No I/O or parsing logic lives here, only plain
// data types and validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// NCBIConfig holds E-Utilities client parameters.
type NCBIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Tool         string        `mapstructure:"tool"`
	Email        string        `mapstructure:"email"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
}

// CacheConfig holds the retrieval-cache parameters. When RedisAddr is set the
// caches are backed by Redis and shared across replicas; otherwise they are
// in-process.
type CacheConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxSize       int           `mapstructure:"max_size"` // bound on memoized query results
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
}

// AnalysisConfig holds the clustering-pipeline tunables.
type AnalysisConfig struct {
	MaxClusters int     `mapstructure:"max_clusters"`
	MaxFeatures int     `mapstructure:"max_features"`
	MinDocFreq  int     `mapstructure:"min_doc_freq"`
	MaxDocShare float64 `mapstructure:"max_doc_share"`
	Seed        int64   `mapstructure:"seed"`
}

// RateLimitConfig holds the inbound API rate-limit parameters.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LogConfig holds logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"` // "json" | "console"
	OutputPaths []string `mapstructure:"output_paths"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	NCBI      NCBIConfig      `mapstructure:"ncbi"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// Validate checks cross-field constraints. It assumes ApplyDefaults has
// already run, so zero values for defaulted fields never reach here.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test, got %q", c.Server.Mode)
	}
	if c.NCBI.BaseURL == "" {
		return fmt.Errorf("ncbi.base_url must not be empty")
	}
	if c.NCBI.RequestDelay < 0 {
		return fmt.Errorf("ncbi.request_delay must not be negative")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.MaxSize < 1 {
		return fmt.Errorf("cache.max_size must be at least 1, got %d", c.Cache.MaxSize)
	}
	if c.Analysis.MaxClusters < 1 {
		return fmt.Errorf("analysis.max_clusters must be at least 1, got %d", c.Analysis.MaxClusters)
	}
	if c.Analysis.MaxDocShare <= 0 || c.Analysis.MaxDocShare > 1 {
		return fmt.Errorf("analysis.max_doc_share must be in (0, 1], got %g", c.Analysis.MaxDocShare)
	}
	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limit.requests_per_second must be positive when enabled")
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("rate_limit.burst must be at least 1 when enabled")
		}
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
