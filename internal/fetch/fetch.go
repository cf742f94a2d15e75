package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jobsift/jobsift/internal/model"
	"github.com/jobsift/jobsift/internal/ratelimit"
)

const (
	defaultMaxRetries = 3
	initialBackoff    = 1 * time.Second
	maxBackoff        = 30 * time.Second
)

// Client is a retrying HTTP fetcher shared by all connectors. Every request
// first waits on the window limiter under the connector's source key, then
// retries transient failures (network errors, 429, 5xx) with exponential
// backoff. 4xx responses are returned immediately.
type Client struct {
	httpClient  *http.Client
	limiter     *ratelimit.WindowLimiter
	maxRetries  int
	baseBackoff time.Duration
	logger      *slog.Logger
}

// NewClient wraps httpClient with rate limiting and retry behavior.
// limiter may be nil, in which case no rate limiting is applied.
func NewClient(httpClient *http.Client, limiter *ratelimit.WindowLimiter, logger *slog.Logger) *Client {
	return &Client{
		httpClient:  httpClient,
		limiter:     limiter,
		maxRetries:  defaultMaxRetries,
		baseBackoff: initialBackoff,
		logger:      logger,
	}
}

// Get fetches url and returns the response body. sourceKey identifies the
// calling connector for rate limiting. headers may be nil.
func (c *Client) Get(ctx context.Context, sourceKey, url string, headers map[string]string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt, lastErr)
			c.logger.Warn("retrying after transient error",
				"source", sourceKey,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"delay", delay,
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
			case <-time.After(delay):
			}
		}

		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, sourceKey); err != nil {
				return nil, err
			}
		}

		body, err := c.doOnce(ctx, url, headers)
		if err == nil {
			return body, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("fetch %s: retries exhausted: %w", url, lastErr)
}

func (c *Client) doOnce(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json, application/xml, text/html")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// backoffDelay computes the delay for a given attempt with ±30% jitter,
// doubling from initialBackoff and capped at maxBackoff. A Retry-After
// duration from the server (HTTP 429) takes precedence.
func (c *Client) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := c.baseBackoff
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= maxBackoff {
			delay = maxBackoff
			break
		}
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth
// retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation — never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		// Other 4xx (404 included) — not retryable.
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) — retryable.
	return true
}

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports seconds format (e.g. "120"). Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
