package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Observability ObservabilityConfig `yaml:"observability"`
	Jobs          JobsConfig          `yaml:"jobs"`
	StatsQueue    StatsQueueConfig    `yaml:"stats_queue"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	Environment     string  `yaml:"environment"`
	LogLevel        string  `yaml:"log_level"`
	MetricsAddress  string  `yaml:"metrics_address"`
	TempoEndpoint   string  `yaml:"tempo_endpoint"`
	TempoInsecure   bool    `yaml:"tempo_insecure"`
	TempoSampleRate float64 `yaml:"tempo_sample_rate"`
}

// JobsConfig controls the periodic batch jobs (rank refresh, clan refresh).
type JobsConfig struct {
	RankRefreshInterval time.Duration `yaml:"rank_refresh_interval"`
	ClanRefreshInterval time.Duration `yaml:"clan_refresh_interval"`
	PageSize            int           `yaml:"page_size"`
	// PagesPerSecond paces page commits. Zero means unlimited.
	PagesPerSecond float64 `yaml:"pages_per_second"`
	RunOnStart     bool    `yaml:"run_on_start"`
}

// StatsQueueConfig controls the attempt stats queue.
type StatsQueueConfig struct {
	Capacity      int           `yaml:"capacity"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	MaxBatch      int           `yaml:"max_batch"`
}

const (
	DefaultPageSize            = 1000
	DefaultRefreshInterval     = time.Hour
	DefaultStatsQueueCapacity  = 1024
	DefaultStatsFlushInterval  = 2 * time.Minute
	DefaultStatsMaxBatch       = 500
	DefaultTempoSampleRate     = 0.1
	DefaultLogLevel            = "info"
	defaultConfigEnvironment   = "development"
	envDatabaseURL             = "DATABASE_URL"
	envNATSURL                 = "NATS_URL"
	envRankRefreshInterval     = "RANK_REFRESH_INTERVAL"
	envClanRefreshInterval     = "CLAN_REFRESH_INTERVAL"
	envJobsPageSize            = "JOBS_PAGE_SIZE"
	envJobsPagesPerSecond      = "JOBS_PAGES_PER_SECOND"
	envJobsRunOnStart          = "JOBS_RUN_ON_START"
	envStatsQueueCapacity      = "STATS_QUEUE_CAPACITY"
	envStatsQueueFlushInterval = "STATS_QUEUE_FLUSH_INTERVAL"
)

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	cfg.Postgres.DSN = os.Getenv(envDatabaseURL)
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("%s environment variable not set", envDatabaseURL)
	}

	cfg.NATS.URL = os.Getenv(envNATSURL)
	if cfg.NATS.URL == "" {
		return nil, fmt.Errorf("%s environment variable not set", envNATSURL)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// applyEnvOverrides overrides file values with environment variables when present.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(envDatabaseURL); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv(envNATSURL); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("TEMPO_ENDPOINT"); v != "" {
		cfg.Observability.TempoEndpoint = v
	}
	if v := os.Getenv("TEMPO_INSECURE"); v != "" {
		cfg.Observability.TempoInsecure = v == "true"
	}
	if v := os.Getenv("TEMPO_SAMPLE_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid TEMPO_SAMPLE_RATE value: %w", err)
		}
		cfg.Observability.TempoSampleRate = f
	}
	if v := os.Getenv(envRankRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envRankRefreshInterval, err)
		}
		cfg.Jobs.RankRefreshInterval = d
	}
	if v := os.Getenv(envClanRefreshInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envClanRefreshInterval, err)
		}
		cfg.Jobs.ClanRefreshInterval = d
	}
	if v := os.Getenv(envJobsPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envJobsPageSize, err)
		}
		cfg.Jobs.PageSize = n
	}
	if v := os.Getenv(envJobsPagesPerSecond); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envJobsPagesPerSecond, err)
		}
		cfg.Jobs.PagesPerSecond = f
	}
	if v := os.Getenv(envJobsRunOnStart); v != "" {
		cfg.Jobs.RunOnStart = v == "true"
	}
	if v := os.Getenv(envStatsQueueCapacity); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envStatsQueueCapacity, err)
		}
		cfg.StatsQueue.Capacity = n
	}
	if v := os.Getenv(envStatsQueueFlushInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", envStatsQueueFlushInterval, err)
		}
		cfg.StatsQueue.FlushInterval = d
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Observability.Environment == "" {
		c.Observability.Environment = defaultConfigEnvironment
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = DefaultLogLevel
	}
	if c.Observability.TempoSampleRate == 0 {
		c.Observability.TempoSampleRate = DefaultTempoSampleRate
	}
	if c.Jobs.PageSize <= 0 {
		c.Jobs.PageSize = DefaultPageSize
	}
	if c.Jobs.RankRefreshInterval <= 0 {
		c.Jobs.RankRefreshInterval = DefaultRefreshInterval
	}
	if c.Jobs.ClanRefreshInterval <= 0 {
		c.Jobs.ClanRefreshInterval = DefaultRefreshInterval
	}
	if c.StatsQueue.Capacity <= 0 {
		c.StatsQueue.Capacity = DefaultStatsQueueCapacity
	}
	if c.StatsQueue.FlushInterval <= 0 {
		c.StatsQueue.FlushInterval = DefaultStatsFlushInterval
	}
	if c.StatsQueue.MaxBatch <= 0 {
		c.StatsQueue.MaxBatch = DefaultStatsMaxBatch
	}
}
