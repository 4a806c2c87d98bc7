package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Storage    StorageConfig    `yaml:"storage"`
	Optimizer  OptimizerConfig  `yaml:"optimizer"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// StorageConfig holds object storage and upload optimization settings.
type StorageConfig struct {
	DataDir               string `yaml:"data_dir"`
	DefaultQuotaBytes     int64  `yaml:"default_quota_bytes"`
	DefaultBandwidthDaily int64  `yaml:"default_bandwidth_daily"`
	CompressionQuality    int    `yaml:"compression_quality"`
}

// OptimizerConfig controls the background storage optimizer.
type OptimizerConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
	StaleDays       int           `yaml:"stale_days"`
	ArchiveDays     int           `yaml:"archive_days"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the alert worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "./data/objects"
	}
	if cfg.Storage.DefaultQuotaBytes <= 0 {
		cfg.Storage.DefaultQuotaBytes = 5 << 30 // 5 GiB
	}
	if cfg.Storage.DefaultBandwidthDaily <= 0 {
		cfg.Storage.DefaultBandwidthDaily = 1 << 30 // 1 GiB per day
	}
	if cfg.Storage.CompressionQuality <= 0 || cfg.Storage.CompressionQuality > 100 {
		cfg.Storage.CompressionQuality = 80
	}

	if cfg.Optimizer.IntervalSeconds <= 0 {
		cfg.Optimizer.IntervalSeconds = 3600
	}
	cfg.Optimizer.Interval = time.Duration(cfg.Optimizer.IntervalSeconds) * time.Second
	if cfg.Optimizer.StaleDays <= 0 {
		cfg.Optimizer.StaleDays = 180
	}
	if cfg.Optimizer.ArchiveDays <= 0 {
		cfg.Optimizer.ArchiveDays = 90
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
