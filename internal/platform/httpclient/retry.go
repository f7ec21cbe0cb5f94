package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/jsamuelsen11/rapidcontext/internal/platform/config"
)

// IdempotencyKeyHeader marks a non-idempotent request as safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

const jitter = 0.25

type retryPolicy struct {
	maxAttempts     int
	initialInterval time.Duration
	maxInterval     time.Duration
	multiplier      float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	p := retryPolicy{
		maxAttempts:     max(cfg.MaxAttempts, 1),
		initialInterval: cfg.InitialInterval,
		maxInterval:     cfg.MaxInterval,
		multiplier:      cfg.Multiplier,
	}
	if p.initialInterval <= 0 {
		p.initialInterval = 100 * time.Millisecond
	}
	if p.maxInterval < p.initialInterval {
		p.maxInterval = p.initialInterval
	}
	if p.multiplier < 1 {
		p.multiplier = 1
	}
	return p
}

// backoff returns a fresh jittered exponential schedule. Instances are not
// safe for concurrent use, so each request gets its own.
func (p retryPolicy) backoff() *backoff.ExponentialBackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.initialInterval,
		RandomizationFactor: jitter,
		Multiplier:          p.multiplier,
		MaxInterval:         p.maxInterval,
	}
	b.Reset()
	return b
}

// doWithRetry sends req until it succeeds, fails permanently or runs out of
// attempts. Requests that cannot be replayed are sent once.
//
// The last response is stored in resp. When attempts are exhausted on a
// retryable status its body is left open for the caller.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, resp **http.Response) error {
	attempts := c.retry.maxAttempts
	if !replayable(req) {
		attempts = 1
	}

	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		body, err = io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return fmt.Errorf("%s: reading request body: %w", c.name, err)
		}
	}

	schedule := c.retry.backoff()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(bytes.NewReader(body)), nil
			}
		}

		r, err := c.http.Do(req)
		*resp = r
		switch {
		case err != nil:
			lastErr = fmt.Errorf("%s: %w", c.name, err)
			if !isRetryable(err) {
				return lastErr
			}
		case isRetryableStatus(r.StatusCode):
			lastErr = fmt.Errorf("%s: upstream returned %d", c.name, r.StatusCode)
		default:
			return nil
		}
		if attempt == attempts {
			break
		}

		wait := schedule.NextBackOff()
		if r != nil {
			if ra, ok := retryAfter(r.Header.Get("Retry-After"), time.Now()); ok {
				wait = min(ra, c.retry.maxInterval)
			}
			_, _ = io.Copy(io.Discard, r.Body)
			_ = r.Body.Close()
			*resp = nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}

// replayable reports whether req may be sent more than once.
func replayable(req *http.Request) bool {
	if req.Header.Get(IdempotencyKeyHeader) != "" {
		return true
	}
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace,
		http.MethodPut, http.MethodDelete:
		return true
	default:
		return false
	}
}

// retryAfter parses a Retry-After value given either as delay seconds or as
// an HTTP date.
func retryAfter(v string, now time.Time) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, false
	}
	return max(t.Sub(now), 0), true
}

// isRetryable treats timeouts and connection failures as transient.
// Cancellation is never retried.
func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
