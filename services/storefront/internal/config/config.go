package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort       int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8010"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	RateLimitRPS   float64  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int      `env:"RATE_LIMIT_BURST" envDefault:"40"`

	// Durable state
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"memory"`
	RedisAddr      string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass      string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB        int    `env:"REDIS_DB" envDefault:"0"`
	PostgresDSN    string `env:"POSTGRES_DSN" envDefault:""`

	// State TTL in hours (default: 30 days). Applies to the Redis backend.
	StateTTL int `env:"STATE_TTL_HOURS" envDefault:"720"`

	// Sessions idle longer than this are evicted from memory.
	SessionIdleMinutes int `env:"SESSION_IDLE_MINUTES" envDefault:"60"`

	// Empty means the embedded seed catalog.
	CatalogPath string `env:"CATALOG_PATH" envDefault:""`

	// Kafka
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"false"`
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Tracing
	OTelEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTelSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1"`

	// Notification placement
	ToastMobileBreakpoint float64 `env:"TOAST_MOBILE_BREAKPOINT" envDefault:"640"`
	ToastAnchorOffset     float64 `env:"TOAST_ANCHOR_OFFSET" envDefault:"10"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads configuration from vars, or from the process environment
// when vars is nil.
func LoadFrom(vars map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.LoadFrom(cfg, vars); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// StateTTLDuration returns the Redis key lifetime.
func (c *Config) StateTTLDuration() time.Duration {
	return time.Duration(c.StateTTL) * time.Hour
}

// SessionIdleTTL returns how long an unused session stays in memory.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleMinutes) * time.Minute
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.StorageBackend {
	case BackendMemory, BackendRedis:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.StorageBackend)
	}
	if c.StateTTL < 0 {
		return fmt.Errorf("invalid state TTL: %d", c.StateTTL)
	}
	if c.SessionIdleMinutes < 1 {
		return fmt.Errorf("invalid session idle minutes: %d", c.SessionIdleMinutes)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("rate limit burst must be positive when RATE_LIMIT_RPS is set")
	}
	if c.OTelSampleRate < 0 || c.OTelSampleRate > 1 {
		return fmt.Errorf("invalid OTEL sample rate: %v", c.OTelSampleRate)
	}
	if c.ToastMobileBreakpoint <= 0 {
		return fmt.Errorf("invalid toast mobile breakpoint: %v", c.ToastMobileBreakpoint)
	}
	return nil
}
