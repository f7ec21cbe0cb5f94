package config

import "time"

const (
	defaultServerPort = 8080

	defaultLogLimit     = 500_000
	defaultPreviewLimit = 1000
	defaultTraceDepth   = 20

	defaultSQLMaxOpen = 10
	defaultSQLMaxIdle = 2

	defaultClientTimeout         = 30 * time.Second
	defaultRetryMaxAttempts      = 3
	defaultRetryInitialInterval  = 100 * time.Millisecond
	defaultRetryMaxInterval      = 10 * time.Second
	defaultRetryMultiplier       = 2.0
	defaultCircuitBreakerTimeout = 30 * time.Second

	defaultCircuitBreakerMaxFailures = 5
	defaultCircuitBreakerHalfOpen    = 1
)

// defaults returns the default configuration values.
// These are loaded first and can be overridden by base.yaml, profile YAML, and env vars.
func defaults() map[string]any {
	return map[string]any{
		"server.host":          "0.0.0.0",
		"server.port":          defaultServerPort,
		"server.read_timeout":  "5s",
		"server.write_timeout": "60s",
		"server.idle_timeout":  "120s",

		"log.level":  "info",
		"log.format": "json",

		"storage.dir":      "storage",
		"storage.watch":    true,
		"storage.debounce": "250ms",

		"metrics.path": "",

		"call.log_limit":     defaultLogLimit,
		"call.preview_limit": defaultPreviewLimit,
		"call.timeout":       "30s",
		"call.trace_depth":   defaultTraceDepth,

		"telemetry.enabled":      false,
		"telemetry.exporter":     "stdout",
		"telemetry.endpoint":     "",
		"telemetry.service_name": "rapidcontext",
	}
}

// applyPoolDefaults fills unset per-pool values. Pools are a map keyed by
// user-chosen names, so their defaults cannot be expressed as fixed keys.
func applyPoolDefaults(pools map[string]PoolConfig) {
	for name, p := range pools {
		switch p.Type {
		case PoolTypeSQL:
			if p.MaxOpen == 0 {
				p.MaxOpen = defaultSQLMaxOpen
			}
			if p.MaxIdle == 0 {
				p.MaxIdle = defaultSQLMaxIdle
			}
		case PoolTypeHTTP:
			c := &p.HTTP
			if c.Timeout == 0 {
				c.Timeout = defaultClientTimeout
			}
			if c.Retry.MaxAttempts == 0 {
				c.Retry.MaxAttempts = defaultRetryMaxAttempts
			}
			if c.Retry.InitialInterval == 0 {
				c.Retry.InitialInterval = defaultRetryInitialInterval
			}
			if c.Retry.MaxInterval == 0 {
				c.Retry.MaxInterval = defaultRetryMaxInterval
			}
			if c.Retry.Multiplier == 0 {
				c.Retry.Multiplier = defaultRetryMultiplier
			}
			if c.CircuitBreaker.MaxFailures == 0 {
				c.CircuitBreaker.MaxFailures = defaultCircuitBreakerMaxFailures
			}
			if c.CircuitBreaker.Timeout == 0 {
				c.CircuitBreaker.Timeout = defaultCircuitBreakerTimeout
			}
			if c.CircuitBreaker.HalfOpenLimit == 0 {
				c.CircuitBreaker.HalfOpenLimit = defaultCircuitBreakerHalfOpen
			}
		}
		pools[name] = p
	}
}
