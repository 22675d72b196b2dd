package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://file
nats:
  url: nats://file
observability:
  metrics_address: ":9100"
jobs:
  rank_refresh_interval: 30m
  page_size: 250
stats_queue:
  capacity: 16
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://file", cfg.Postgres.DSN)
	assert.Equal(t, "nats://file", cfg.NATS.URL)
	assert.Equal(t, ":9100", cfg.Observability.MetricsAddress)
	assert.Equal(t, 30*time.Minute, cfg.Jobs.RankRefreshInterval)
	assert.Equal(t, DefaultRefreshInterval, cfg.Jobs.ClanRefreshInterval)
	assert.Equal(t, 250, cfg.Jobs.PageSize)
	assert.Equal(t, 16, cfg.StatsQueue.Capacity)
	assert.Equal(t, DefaultStatsFlushInterval, cfg.StatsQueue.FlushInterval)
	assert.Equal(t, DefaultLogLevel, cfg.Observability.LogLevel)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
postgres:
  dsn: postgres://file
nats:
  url: nats://file
`)
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("JOBS_PAGE_SIZE", "10")
	t.Setenv("JOBS_RUN_ON_START", "true")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://env", cfg.Postgres.DSN)
	assert.Equal(t, "nats://file", cfg.NATS.URL)
	assert.Equal(t, 10, cfg.Jobs.PageSize)
	assert.True(t, cfg.Jobs.RunOnStart)
}

func TestLoadConfig_EnvOnly(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	t.Run("requires DATABASE_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("NATS_URL", "nats://env")
		_, err := LoadConfig(missing)
		assert.Error(t, err)
	})

	t.Run("requires NATS_URL", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env")
		t.Setenv("NATS_URL", "")
		_, err := LoadConfig(missing)
		assert.Error(t, err)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://env")
		t.Setenv("NATS_URL", "nats://env")
		cfg, err := LoadConfig(missing)
		require.NoError(t, err)
		assert.Equal(t, DefaultPageSize, cfg.Jobs.PageSize)
		assert.Equal(t, DefaultStatsQueueCapacity, cfg.StatsQueue.Capacity)
		assert.Equal(t, DefaultTempoSampleRate, cfg.Observability.TempoSampleRate)
	})
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	path := writeConfigFile(t, "postgres:\n  dsn: x\n")
	t.Setenv("RANK_REFRESH_INTERVAL", "soon")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
