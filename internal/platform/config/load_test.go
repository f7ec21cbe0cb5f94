package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
)

// Profile tests chdir to the repository root to read configs/; t.Chdir
// forbids t.Parallel.

func TestLoad_Profiles(t *testing.T) {
	tests := []struct {
		profile string
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			profile: "local",
			check: func(t *testing.T, cfg *config.Config) {
				if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
					t.Errorf("Log = %+v, want debug/text", cfg.Log)
				}
				if cfg.Telemetry.Enabled {
					t.Error("Telemetry.Enabled = true, want false")
				}
				if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8080 {
					t.Errorf("Server = %s:%d, want 0.0.0.0:8080 from base", cfg.Server.Host, cfg.Server.Port)
				}
				if db := cfg.Pools["db"]; db.Driver != "sqlite3" {
					t.Errorf("Pools[db].Driver = %q, want sqlite3 from base", db.Driver)
				}
				if cfg.Call.TraceDepth != 20 || cfg.Call.PreviewLimit != 1000 {
					t.Errorf("Call = %+v, want trace depth 20 and preview limit 1000", cfg.Call)
				}
			},
		},
		{
			profile: "prod",
			check: func(t *testing.T, cfg *config.Config) {
				if !cfg.Telemetry.Enabled || cfg.Telemetry.Exporter != "otlp" || cfg.Telemetry.Endpoint == "" {
					t.Errorf("Telemetry = %+v, want enabled otlp with endpoint", cfg.Telemetry)
				}
				if cfg.Storage.Watch {
					t.Error("Storage.Watch = true, want false")
				}
				if db := cfg.Pools["db"]; db.Driver != "pgx" || db.MaxOpen != 20 {
					t.Errorf("Pools[db] = %+v, want pgx with max_open 20", db)
				}
				api := cfg.Pools["api"].HTTP
				if api.BaseURL != "http://api.internal:8080" {
					t.Errorf("Pools[api].BaseURL = %q, want profile override", api.BaseURL)
				}
				if api.Timeout != 30*time.Second || api.Retry.MaxAttempts != 3 {
					t.Errorf("Pools[api] timeout/retry = %v/%d, want merged from base", api.Timeout, api.Retry.MaxAttempts)
				}
				if api.RateLimit.RequestsPerSecond != 50 {
					t.Errorf("Pools[api].RateLimit = %+v, want 50 rps", api.RateLimit)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Chdir("../../..")
			cfg, err := config.Load(tt.profile)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.profile, err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
		got   func(*config.Config) any
		want  any
	}{
		{name: "simple key", env: "APP_SERVER_PORT", value: "9090", got: func(c *config.Config) any { return c.Server.Port }, want: 9090},
		{name: "underscore field", env: "APP_SERVER_READ_TIMEOUT", value: "15s", got: func(c *config.Config) any { return c.Server.ReadTimeout }, want: 15 * time.Second},
		{name: "call limit", env: "APP_CALL_PREVIEW_LIMIT", value: "64", got: func(c *config.Config) any { return c.Call.PreviewLimit }, want: 64},
		{
			name: "pool setting", env: "APP_POOLS_API_HTTP_RETRY_MAX_ATTEMPTS", value: "7",
			got: func(c *config.Config) any { return c.Pools["api"].HTTP.Retry.MaxAttempts }, want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir("../../..")
			t.Setenv(tt.env, tt.value)

			cfg, err := config.Load("local")
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got := tt.got(cfg); got != tt.want {
				t.Errorf("%s: got %v, want %v", tt.env, got, tt.want)
			}
		})
	}
}

func TestLoad_DefaultsFillMissingKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  level: warn\n")
	writeFile(t, filepath.Join(dir, "test.yaml"), `
pools:
  api:
    type: http
    http:
      base_url: http://example.test
  db:
    type: sql
    driver: sqlite3
    dsn: "file::memory:"
`)

	cfg, err := config.Load("test", config.WithConfigDir(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Log.Level != "warn" || cfg.Call.LogLimit != 500000 {
		t.Errorf("Load() = port %d, level %q, log limit %d; want 8080, warn, 500000",
			cfg.Server.Port, cfg.Log.Level, cfg.Call.LogLimit)
	}
	api := cfg.Pools["api"].HTTP
	if api.Retry.MaxAttempts != 3 || api.Timeout != 30*time.Second || api.CircuitBreaker.HalfOpenLimit != 1 {
		t.Errorf("Pools[api].HTTP = %+v, want pool defaults", api)
	}
	if db := cfg.Pools["db"]; db.MaxOpen != 10 || db.MaxIdle != 2 {
		t.Errorf("Pools[db] = %+v, want max_open 10 and max_idle 2", db)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "server:\n  port: 8080\n")
	writeFile(t, filepath.Join(dir, "bad.yaml"), "server:\n  port: 0\n")
	writeFile(t, filepath.Join(dir, "broken.yaml"), "server: [\n")

	tests := []struct {
		profile string
		wantMsg string
	}{
		{profile: "", wantMsg: "must not be empty"},
		{profile: "../etc", wantMsg: "path separators"},
		{profile: "a..b", wantMsg: "path traversal"},
		{profile: "missing", wantMsg: "loading profile config"},
		{profile: "broken", wantMsg: "loading profile config"},
		{profile: "bad", wantMsg: "server.port"},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(tt.profile, config.WithConfigDir(dir))
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load(%q) error = %v, want containing %q", tt.profile, err, tt.wantMsg)
			}
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
