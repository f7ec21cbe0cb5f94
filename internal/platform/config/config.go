// Package config provides configuration loading and validation for the service.
// Configuration is loaded from YAML files with environment variable overrides
// using a layered system: defaults -> base.yaml -> {profile}.yaml -> env vars.
package config

import "time"

// Pool types.
const (
	PoolTypeSQL  = "sql"
	PoolTypeHTTP = "http"
)

// Config holds all configuration for the service.
type Config struct {
	Server    ServerConfig          `koanf:"server"`
	Log       LogConfig             `koanf:"log"`
	Telemetry TelemetryConfig       `koanf:"telemetry"`
	Storage   StorageConfig         `koanf:"storage"`
	Metrics   MetricsConfig         `koanf:"metrics"`
	Call      CallConfig            `koanf:"call"`
	Pools     map[string]PoolConfig `koanf:"pools"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `koanf:"host"`
	Port         int           `koanf:"port"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StorageConfig holds procedure definition storage settings.
type StorageConfig struct {
	Dir      string        `koanf:"dir"`
	Watch    bool          `koanf:"watch"`
	Debounce time.Duration `koanf:"debounce"`
}

// MetricsConfig holds procedure usage statistics settings. An empty path
// disables the statistics database.
type MetricsConfig struct {
	Path string `koanf:"path"`
}

// CallConfig holds procedure call engine settings.
type CallConfig struct {
	LogLimit     int           `koanf:"log_limit"`
	PreviewLimit int           `koanf:"preview_limit"`
	Timeout      time.Duration `koanf:"timeout"`
	TraceDepth   int           `koanf:"trace_depth"`
}

// PoolConfig describes one named connection pool. SQL pools use Driver,
// DSN and the pool sizes; HTTP pools use the HTTP client settings.
type PoolConfig struct {
	Type            string        `koanf:"type"`
	Driver          string        `koanf:"driver"`
	DSN             string        `koanf:"dsn"`
	MaxOpen         int           `koanf:"max_open"`
	MaxIdle         int           `koanf:"max_idle"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	HTTP            ClientConfig  `koanf:"http"`
}

// ClientConfig holds downstream HTTP client settings.
type ClientConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Timeout        time.Duration        `koanf:"timeout"`
	Headers        map[string]string    `koanf:"headers"`
	Retry          RetryConfig          `koanf:"retry"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
}

// RetryConfig holds retry policy settings with exponential backoff.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
	Multiplier      float64       `koanf:"multiplier"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"`
	Timeout       time.Duration `koanf:"timeout"`
	HalfOpenLimit int           `koanf:"half_open_limit"`
}

// RateLimitConfig holds client-side rate limiting settings. A zero
// RequestsPerSecond disables rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	BurstSize         int     `koanf:"burst_size"`
}

// TelemetryConfig holds OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
	ServiceName string `koanf:"service_name"`
}
