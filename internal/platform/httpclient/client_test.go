package httpclient_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/httpclient"
)

func poolConfig(baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
	}
}

// countingServer answers with statuses in order, repeating the last one.
func countingServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(calls.Add(1)) - 1
		w.WriteHeader(statuses[min(n, len(statuses)-1)])
		_, _ = io.WriteString(w, "attempt")
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func send(t *testing.T, c *httpclient.Client, method, url string, body io.Reader, header http.Header) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, body)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	for k, vs := range header {
		req.Header[k] = vs
	}
	resp, err := c.Do(context.Background(), req)
	if resp != nil {
		t.Cleanup(func() { _ = resp.Body.Close() })
	}
	return resp, err
}

func TestDo_RetryPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		header     http.Header
		statuses   []int
		wantStatus int
		wantCalls  int32
		wantErr    bool
	}{
		{name: "GET success", method: http.MethodGet, statuses: []int{200}, wantStatus: 200, wantCalls: 1},
		{name: "GET retries 503", method: http.MethodGet, statuses: []int{503, 503, 200}, wantStatus: 200, wantCalls: 3},
		{name: "GET retries 429", method: http.MethodGet, statuses: []int{429, 200}, wantStatus: 200, wantCalls: 2},
		{name: "GET no retry on 404", method: http.MethodGet, statuses: []int{404}, wantStatus: 404, wantCalls: 1},
		{name: "GET exhausted", method: http.MethodGet, statuses: []int{502}, wantStatus: 502, wantCalls: 3, wantErr: true},
		{name: "DELETE retries", method: http.MethodDelete, statuses: []int{500, 204}, wantStatus: 204, wantCalls: 2},
		{name: "POST not retried", method: http.MethodPost, statuses: []int{503, 200}, wantStatus: 503, wantCalls: 1, wantErr: true},
		{
			name:       "POST with idempotency key retried",
			method:     http.MethodPost,
			header:     http.Header{"Idempotency-Key": {"k-1"}},
			statuses:   []int{503, 201},
			wantStatus: 201,
			wantCalls:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, calls := countingServer(t, tt.statuses...)
			c := httpclient.New(poolConfig(srv.URL), "api", nil, nil)

			resp, err := send(t, c, tt.method, srv.URL, http.NoBody, tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Do() error = %v, wantErr %v", err, tt.wantErr)
			}
			if resp == nil {
				t.Fatal("Do() response = nil, want response")
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestDo_ExhaustedResponseBodyReadable(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, http.StatusServiceUnavailable)
	c := httpclient.New(poolConfig(srv.URL), "api", nil, nil)

	resp, err := send(t, c, http.MethodGet, srv.URL, http.NoBody, nil)
	if err == nil {
		t.Fatal("Do() error = nil, want error")
	}
	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil || string(body) != "attempt" {
		t.Errorf("body = %q, %v; want %q", body, readErr, "attempt")
	}
}

func TestDo_BodyReplayedOnRetry(t *testing.T) {
	t.Parallel()

	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(b))
		n := len(bodies)
		mu.Unlock()
		if n < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := httpclient.New(poolConfig(srv.URL), "api", nil, nil)
	if _, err := send(t, c, http.MethodPut, srv.URL, strings.NewReader(`{"id":1}`), nil); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 3 {
		t.Fatalf("attempts = %d, want 3", len(bodies))
	}
	for i, b := range bodies {
		if b != `{"id":1}` {
			t.Errorf("attempt %d body = %q, want %q", i+1, b, `{"id":1}`)
		}
	}
}

func TestDo_HonoursRetryAfter(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := httpclient.New(poolConfig(srv.URL), "api", nil, nil)
	start := time.Now()
	resp, err := send(t, c, http.MethodGet, srv.URL, http.NoBody, nil)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	// Retry-After is capped at the configured max interval.
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("elapsed = %v, want Retry-After capped", elapsed)
	}
}

func TestDo_InjectsHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	cfg := poolConfig(srv.URL)
	cfg.Headers = map[string]string{"X-Api-Key": "secret", "Accept": "application/json"}
	c := httpclient.New(cfg, "api", nil, nil)

	ctx := httpclient.WithRequestID(context.Background(), "req-1")
	ctx = httpclient.WithCorrelationID(ctx, "corr-1")
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, http.NoBody)
	req.Header.Set("Accept", "text/plain")
	resp, err := c.Do(ctx, req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	_ = resp.Body.Close()

	want := map[string]string{
		"X-Request-Id":     "req-1",
		"X-Correlation-Id": "corr-1",
		"X-Api-Key":        "secret",
		"Accept":           "text/plain",
	}
	for k, v := range want {
		if got.Get(k) != v {
			t.Errorf("header %s = %q, want %q", k, got.Get(k), v)
		}
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, http.StatusServiceUnavailable)
	cfg := poolConfig(srv.URL)
	cfg.Retry.InitialInterval = time.Minute
	cfg.Retry.MaxInterval = time.Minute
	c := httpclient.New(cfg, "api", nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, http.NoBody)
	_, err := c.Do(ctx, req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, http.StatusInternalServerError)
	cfg := poolConfig(srv.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.CircuitBreaker.MaxFailures = 2
	cfg.CircuitBreaker.Timeout = 50 * time.Millisecond
	c := httpclient.New(cfg, "api", nil, nil)

	if err := c.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() closed = %v, want nil", err)
	}

	for range 2 {
		_, _ = send(t, c, http.MethodGet, srv.URL, http.NoBody, nil)
	}
	err := c.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "failing") {
		t.Errorf("HealthCheck() open = %v, want failing", err)
	}
	if _, err := send(t, c, http.MethodGet, srv.URL, http.NoBody, nil); !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("Do() while open = %v, want ErrOpenState", err)
	}

	time.Sleep(80 * time.Millisecond)
	err = c.HealthCheck(context.Background())
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Errorf("HealthCheck() half-open = %v, want degraded", err)
	}
}

func TestClient_ResolveURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		base    string
		ref     string
		want    string
		wantErr bool
	}{
		{name: "relative path", base: "http://api.local/v1/", ref: "items", want: "http://api.local/v1/items"},
		{name: "absolute path", base: "http://api.local/v1/", ref: "/status", want: "http://api.local/status"},
		{name: "absolute url", base: "http://api.local", ref: "https://other.local/x", want: "https://other.local/x"},
		{name: "no base", ref: "/status", want: "/status"},
		{name: "invalid", base: "http://api.local", ref: "http://[::1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := httpclient.New(poolConfig(tt.base), "api", nil, nil)
			got, err := c.ResolveURL(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_Name(t *testing.T) {
	t.Parallel()

	if got := httpclient.New(poolConfig(""), "billing", nil, nil).Name(); got != "billing" {
		t.Errorf("Name() = %q, want %q", got, "billing")
	}
}
