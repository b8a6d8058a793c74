package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, "ncbi:\n  email: dev@example.com\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultNCBIBaseURL, cfg.NCBI.BaseURL)
	assert.Equal(t, DefaultNCBIRequestDelay, cfg.NCBI.RequestDelay)
	assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
	assert.Equal(t, DefaultCacheMaxSize, cfg.Cache.MaxSize)
	assert.Equal(t, DefaultMaxClusters, cfg.Analysis.MaxClusters)
	assert.Equal(t, DefaultMaxFeatures, cfg.Analysis.MaxFeatures)
	assert.Equal(t, int64(DefaultSeed), cfg.Analysis.Seed)
	assert.Equal(t, "dev@example.com", cfg.NCBI.Email)
	assert.Equal(t, []string{"stdout"}, cfg.Log.OutputPaths)
}

func TestLoadExplicitValuesWin(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
  mode: debug
ncbi:
  request_delay: 500ms
cache:
  ttl: 1h
analysis:
  max_clusters: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, 500*time.Millisecond, cfg.NCBI.RequestDelay)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, 5, cfg.Analysis.MaxClusters)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GEOCLUSTER_SERVER_PORT", "7070")
	t.Setenv("GEOCLUSTER_NCBI_EMAIL", "env@example.com")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env@example.com", cfg.NCBI.Email)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		ApplyDefaults(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "server.port",
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Server.Mode = "verbose" },
			wantErr: "server.mode",
		},
		{
			name:    "empty base url",
			mutate:  func(c *Config) { c.NCBI.BaseURL = "" },
			wantErr: "ncbi.base_url",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.NCBI.RequestDelay = -time.Second },
			wantErr: "ncbi.request_delay",
		},
		{
			name:    "zero ttl",
			mutate:  func(c *Config) { c.Cache.TTL = 0 },
			wantErr: "cache.ttl",
		},
		{
			name:    "negative cache size",
			mutate:  func(c *Config) { c.Cache.MaxSize = -1 },
			wantErr: "cache.max_size",
		},
		{
			name:    "max clusters below one",
			mutate:  func(c *Config) { c.Analysis.MaxClusters = 0 },
			wantErr: "analysis.max_clusters",
		},
		{
			name:    "doc share above one",
			mutate:  func(c *Config) { c.Analysis.MaxDocShare = 1.5 },
			wantErr: "analysis.max_doc_share",
		},
		{
			name: "rate limit enabled without rps",
			mutate: func(c *Config) {
				c.RateLimit.Enabled = true
				c.RateLimit.RequestsPerSecond = 0
			},
			wantErr: "rate_limit.requests_per_second",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "log.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestApplyDefaultsNil(t *testing.T) {
	ApplyDefaults(nil)
}
