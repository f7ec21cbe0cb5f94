package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Validate checks all configuration values and returns aggregated errors.
func (c *Config) Validate() error {
	errs := []error{
		c.Server.validate(),
		c.Log.validate(),
		c.Telemetry.validate(),
		c.Storage.validate(),
		c.Call.validate(),
	}
	for _, name := range slices.Sorted(maps.Keys(c.Pools)) {
		p := c.Pools[name]
		errs = append(errs, p.validate(name))
	}
	return errors.Join(errs...)
}

func (s *ServerConfig) validate() error {
	var errs []error

	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", s.Port))
	}
	if s.ReadTimeout <= 0 {
		errs = append(errs, errors.New("server.read_timeout must be positive"))
	}
	if s.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server.write_timeout must be positive"))
	}

	return errors.Join(errs...)
}

func (l *LogConfig) validate() error {
	var errs []error

	switch l.Level {
	case "debug", "info", "warn", "error":
		// Valid levels.
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error; got %q", l.Level))
	}

	switch l.Format {
	case "json", "text":
		// Valid formats.
	default:
		errs = append(errs, fmt.Errorf("log.format must be one of: json, text; got %q", l.Format))
	}

	return errors.Join(errs...)
}

func (s *StorageConfig) validate() error {
	var errs []error

	if s.Dir == "" {
		errs = append(errs, errors.New("storage.dir must not be empty"))
	}
	if s.Debounce < 0 {
		errs = append(errs, errors.New("storage.debounce must not be negative"))
	}

	return errors.Join(errs...)
}

func (c *CallConfig) validate() error {
	var errs []error

	if c.LogLimit < 1 {
		errs = append(errs, fmt.Errorf("call.log_limit must be >= 1, got %d", c.LogLimit))
	}
	if c.PreviewLimit < 1 {
		errs = append(errs, fmt.Errorf("call.preview_limit must be >= 1, got %d", c.PreviewLimit))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("call.timeout must not be negative"))
	}
	if c.TraceDepth < 1 {
		errs = append(errs, fmt.Errorf("call.trace_depth must be >= 1, got %d", c.TraceDepth))
	}

	return errors.Join(errs...)
}

func (p *PoolConfig) validate(name string) error {
	var errs []error

	switch p.Type {
	case PoolTypeSQL:
		switch p.Driver {
		case "sqlite3", "pgx", "sqlserver":
			// Supported drivers.
		default:
			errs = append(errs, fmt.Errorf("pools.%s.driver must be one of: sqlite3, pgx, sqlserver; got %q",
				name, p.Driver))
		}
		if p.DSN == "" {
			errs = append(errs, fmt.Errorf("pools.%s.dsn must not be empty", name))
		}
		if p.MaxOpen < 1 {
			errs = append(errs, fmt.Errorf("pools.%s.max_open must be >= 1, got %d", name, p.MaxOpen))
		}
	case PoolTypeHTTP:
		errs = append(errs, p.HTTP.validate("pools."+name+".http"))
	default:
		errs = append(errs, fmt.Errorf("pools.%s.type must be one of: sql, http; got %q", name, p.Type))
	}

	return errors.Join(errs...)
}

func (cl *ClientConfig) validate(prefix string) error {
	var errs []error

	if cl.BaseURL == "" {
		errs = append(errs, fmt.Errorf("%s.base_url must not be empty", prefix))
	}
	if cl.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s.timeout must be positive", prefix))
	}
	if cl.Retry.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s.retry.max_attempts must be >= 1, got %d", prefix, cl.Retry.MaxAttempts))
	}
	if cl.Retry.Multiplier <= 0 {
		errs = append(errs, fmt.Errorf("%s.retry.multiplier must be positive, got %f", prefix, cl.Retry.Multiplier))
	}
	if cl.CircuitBreaker.MaxFailures < 1 {
		errs = append(errs, fmt.Errorf("%s.circuit_breaker.max_failures must be >= 1, got %d",
			prefix, cl.CircuitBreaker.MaxFailures))
	}
	if cl.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("%s.rate_limit.requests_per_second must not be negative", prefix))
	}

	return errors.Join(errs...)
}

func (t *TelemetryConfig) validate() error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	switch t.Exporter {
	case "stdout", "otlp":
		// Valid exporters.
	default:
		errs = append(errs, fmt.Errorf("telemetry.exporter must be one of: stdout, otlp; got %q", t.Exporter))
	}

	if t.Exporter == "otlp" && t.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint must not be empty when exporter is otlp"))
	}

	return errors.Join(errs...)
}
