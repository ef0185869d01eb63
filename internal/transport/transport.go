// Package transport provides the HTTP round tripper used by the completion backends.
package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// PacedTransport spaces outgoing requests to stay under the provider's request quota. It never retries: a rate
// limited response is logged and returned to the caller unchanged.
type PacedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	logger  *zap.Logger
}

// WithPacing wraps base so that at most requestsPerMinute requests are started per minute. A non-positive value
// disables pacing. base and logger may be nil.
func WithPacing(base http.RoundTripper, requestsPerMinute int, logger *zap.Logger) *PacedTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &PacedTransport{
		base:    base,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger,
	}
}

func (t *PacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("failed to wait for request slot: %w", err)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		t.logger.Warn("Rate limited by provider",
			zap.String("host", req.URL.Host),
			zap.Duration("retry_after", parseRetryAfter(resp.Header.Get("retry-after"), time.Now())),
			zap.String("remaining_requests", resp.Header.Get("x-ratelimit-remaining-requests")),
		)
	}

	return resp, nil
}

// parseRetryAfter interprets a retry-after header given either as seconds or as an HTTP date. It returns 0 when the
// header is absent or unparseable.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if retryTime, err := time.Parse(time.RFC1123, value); err == nil {
		if d := retryTime.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
