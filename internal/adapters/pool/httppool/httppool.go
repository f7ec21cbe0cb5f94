// Package httppool implements connection pools for HTTP services. A pool
// wraps one instrumented httpclient.Client; reserving a connection is free
// and Commit/Rollback have nothing to do, since HTTP calls are not
// transactional.
package httppool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/httpclient"
	"github.com/jsamuelsen11/rapidcontext/internal/platform/telemetry"
	"github.com/jsamuelsen11/rapidcontext/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Pool          = (*Pool)(nil)
	_ ports.Connection    = (*Conn)(nil)
	_ ports.HealthChecker = (*Pool)(nil)
)

// maxResponseSize limits how much of a response body is read.
const maxResponseSize = 10 << 20 // 10 MB

// ErrForeignConnection is returned when a connection is released to a pool
// that did not create it.
var ErrForeignConnection = errors.New("connection does not belong to pool")

// Pool is a named HTTP endpoint.
type Pool struct {
	name   string
	client *httpclient.Client
	logger *slog.Logger
}

// New creates a pool sending requests through an httpclient.Client built
// from cfg. If metrics is nil, metric recording is skipped.
func New(name string, cfg *config.ClientConfig, metrics *telemetry.Metrics, logger *slog.Logger) *Pool {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pool{
		name:   name,
		client: httpclient.New(cfg, name, metrics, logger),
		logger: logger,
	}
}

// Name implements ports.Pool and ports.HealthChecker.
func (p *Pool) Name() string { return p.name }

// Reserve implements ports.Pool.
func (p *Pool) Reserve(context.Context) (ports.Connection, error) {
	return &Conn{pool: p}, nil
}

// Release implements ports.Pool.
func (p *Pool) Release(_ context.Context, conn ports.Connection) error {
	c, ok := conn.(*Conn)
	if !ok || c.pool != p {
		return fmt.Errorf("releasing to %q: %w", p.name, ErrForeignConnection)
	}
	return nil
}

// HealthCheck reports the endpoint's availability based on the circuit
// breaker state; no network call is made.
func (p *Pool) HealthCheck(ctx context.Context) error {
	return p.client.HealthCheck(ctx)
}

// Request describes one outbound HTTP call. URL may be relative to the
// pool's base URL.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response holds a completed HTTP response.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Conn is a reserved HTTP connection.
type Conn struct {
	pool *Pool
}

// Pool implements ports.Connection.
func (c *Conn) Pool() string { return c.pool.name }

// Commit implements ports.Connection.
func (c *Conn) Commit(context.Context) error { return nil }

// Rollback implements ports.Connection.
func (c *Conn) Rollback(context.Context) error { return nil }

// Do sends r. Responses with a status of 400 or above are translated into
// errors by TranslateHTTPError.
func (c *Conn) Do(ctx context.Context, r *Request) (*Response, error) {
	url, err := c.pool.client.ResolveURL(r.URL)
	if err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader = http.NoBody
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("creating %s request for %s: %w", method, r.URL, err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.pool.client.Do(ctx, req)
	if err != nil {
		// Do can return both resp and err when retries are exhausted on a
		// retryable status; the response carries the better error.
		if resp != nil {
			defer c.closeBody(ctx, resp)
			return nil, TranslateHTTPError(resp)
		}
		c.pool.logger.ErrorContext(ctx, "request failed",
			slog.String("pool", c.pool.name),
			slog.String("method", method),
			slog.String("url", url),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode >= http.StatusBadRequest {
		c.pool.logger.WarnContext(ctx, "unexpected status",
			slog.String("pool", c.pool.name),
			slog.String("method", method),
			slog.String("url", url),
			slog.Int("status", resp.StatusCode),
		)
		return nil, TranslateHTTPError(resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s %s: %w", method, req.URL.Path, err)
	}
	return &Response{Status: resp.StatusCode, Headers: resp.Header, Body: data}, nil
}

// closeBody closes an HTTP response body and logs on failure.
func (c *Conn) closeBody(ctx context.Context, resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		c.pool.logger.WarnContext(ctx, "failed to close response body",
			slog.String("error", err.Error()),
		)
	}
}
