package config

import "time"

// ServerConfig is the root configuration for miniredis-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	HTTP  HTTPConfig  `koanf:"http"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// RedisConfig configures the Redis protocol server.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// ReadBufferSize is the largest single read handed to the decoder.
	ReadBufferSize int `koanf:"read_buffer_size"`

	// RateLimit is commands per second per client IP; 0 disables it.
	RateLimit int `koanf:"rate_limit"`

	// MaxConns limits concurrent clients; 0 means unlimited.
	MaxConns int `koanf:"max_conns"`
}

// HTTPConfig configures the admin HTTP server (/metrics, /healthz).
// An empty Addr disables it.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// AuthToken, when set, is required as a bearer token on /metrics.
	AuthToken string `koanf:"auth_token"`

	// AllowList restricts /metrics to these IPs or CIDRs (empty = no restriction).
	AllowList []string `koanf:"allow_list"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`

	// File sends logs to a rotated file instead of stderr.
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}
