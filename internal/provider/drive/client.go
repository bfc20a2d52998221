// Package drive implements the remote tree provider on top of the Google
// Drive API.
package drive

import (
	"context"
	"math"
	"math/rand"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/akarsten/driveback/internal/logging"
)

// Client wraps the Drive API with retry logic.
type Client struct {
	service    *drive.Service
	maxRetries int
	retryDelay time.Duration
	logger     logging.Logger
}

// NewClient creates a new Drive API client.
func NewClient(service *drive.Service, maxRetries int, retryDelayMs int, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	if retryDelayMs <= 0 {
		retryDelayMs = 1000
	}
	return &Client{
		service:    service,
		maxRetries: maxRetries,
		retryDelay: time.Duration(retryDelayMs) * time.Millisecond,
		logger:     logger,
	}
}

// Service returns the underlying Drive service.
func (c *Client) Service() *drive.Service {
	return c.service
}

// ExecuteWithRetry executes an API call, retrying transient failures with
// exponential backoff and jitter.
func ExecuteWithRetry[T any](ctx context.Context, client *Client, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 0; attempt <= client.maxRetries; attempt++ {
		if attempt > 0 {
			client.logger.Warn("Retrying Drive API call",
				logging.F("attempt", attempt),
				logging.F("maxRetries", client.maxRetries),
			)
		}

		result, lastErr = fn()
		if lastErr == nil {
			return result, nil
		}

		if !isRetryable(lastErr) {
			return result, lastErr
		}
		if attempt == client.maxRetries {
			break
		}

		delay := backoffDelay(client.retryDelay, attempt)
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(delay):
		}
	}

	return result, lastErr
}

// isRetryable reports whether an API error is worth retrying.
func isRetryable(err error) bool {
	apiErr, ok := err.(*googleapi.Error)
	if !ok {
		return false
	}
	switch apiErr.Code {
	case 429, 500, 502, 503:
		return true
	case 403:
		for _, e := range apiErr.Errors {
			if e.Reason == "rateLimitExceeded" || e.Reason == "userRateLimitExceeded" {
				return true
			}
		}
	}
	return false
}

// backoffDelay computes exponential backoff with jitter, capped at 30s.
func backoffDelay(base time.Duration, attempt int) time.Duration {
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	if delay > 30*time.Second {
		delay = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 4))
	return delay + jitter
}
