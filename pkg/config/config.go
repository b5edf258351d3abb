package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	FTP       FTPConfig       `mapstructure:"ftp"`
	YouTube   YouTubeConfig   `mapstructure:"youtube"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig contains server-specific configuration
type ServerConfig struct {
	Port           int   `mapstructure:"port"`
	CookieSecure   bool  `mapstructure:"cookie_secure"`
	CookieMaxAge   int   `mapstructure:"cookie_max_age"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// SessionConfig contains the FTP session store configuration
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"`
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	RedisURL      string        `mapstructure:"redis_url"`
	RedisPrefix   string        `mapstructure:"redis_prefix"`
}

// FTPConfig contains FTP client configuration
type FTPConfig struct {
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	ExplicitTLS bool          `mapstructure:"explicit_tls"`
}

// YouTubeConfig contains YouTube Data API configuration
type YouTubeConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Endpoint          string  `mapstructure:"endpoint"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	CommentLimit      int     `mapstructure:"comment_limit"`
	MaxConcurrency    int     `mapstructure:"max_concurrency"`
}

// MetricsConfig contains Prometheus configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// TelemetryConfig contains telemetry configuration
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Load loads the configuration from viper
func Load() (*Config, error) {
	cfg := &Config{}

	// Set defaults
	setDefaults()

	// Unmarshal configuration
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}

	// Post-process configuration
	if err := postProcess(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.cookie_secure", false)
	viper.SetDefault("server.cookie_max_age", 300)
	viper.SetDefault("server.max_upload_bytes", 64<<20)

	// Session defaults
	viper.SetDefault("session.backend", BackendMemory)
	viper.SetDefault("session.ttl", time.Hour)
	viper.SetDefault("session.sweep_interval", time.Minute)
	viper.SetDefault("session.redis_prefix", "ftptube:session:")

	// FTP defaults
	viper.SetDefault("ftp.dial_timeout", 10*time.Second)
	viper.SetDefault("ftp.explicit_tls", false)

	// YouTube defaults
	viper.SetDefault("youtube.requests_per_second", 10)
	viper.SetDefault("youtube.burst", 10)
	viper.SetDefault("youtube.comment_limit", 20)
	viper.SetDefault("youtube.max_concurrency", 8)

	// Metrics and telemetry defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("telemetry.enabled", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json", false)

	// Environment variable mappings
	_ = viper.BindEnv("youtube.api_key", "YOUTUBE_API_KEY")
	_ = viper.BindEnv("session.redis_url", "REDIS_URL")
	_ = viper.BindEnv("telemetry.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func postProcess(cfg *Config) error {
	cfg.Session.Backend = strings.ToLower(strings.TrimSpace(cfg.Session.Backend))
	switch cfg.Session.Backend {
	case "":
		cfg.Session.Backend = BackendMemory
	case BackendMemory:
	case BackendRedis:
		if cfg.Session.RedisURL == "" {
			return fmt.Errorf("session backend %q requires session.redis_url", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}

	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", cfg.Session.TTL)
	}

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", cfg.Server.Port)
	}

	// Get the YouTube key from the environment if not set
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}

	return nil
}
