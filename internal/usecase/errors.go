package usecase

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrSyncAlreadyRunning    = errors.New("sync already running")

	// ErrSource is the base of every provider-side failure. The typed
	// errors below all unwrap to it.
	ErrSource = errors.New("source error")
)

// APIError is a non-retryable HTTP failure from a provider.
type APIError struct {
	Source     string
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s api error: status=%d url=%s", e.Source, e.StatusCode, e.URL)
}

func (e *APIError) Unwrap() error { return ErrSource }

// ParseError is a malformed provider payload. Retrying returns the same
// bytes, so it is never retried.
type ParseError struct {
	Source       string
	ResourceType string
	ResourceID   string
	Raw          string
	Err          error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse error: resource=%s/%s: %v", e.Source, e.ResourceType, e.ResourceID, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrSource }

// RateLimitError is the HTTP 429 path. RetryAfter is zero when the
// provider gave no hint.
type RateLimitError struct {
	Source     string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited: retry_after=%s", e.Source, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error { return ErrSource }

// TimeoutError is a request deadline exceeded.
type TimeoutError struct {
	Source  string
	Timeout time.Duration
	URL     string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout after %s: url=%s", e.Source, e.Timeout, e.URL)
}

func (e *TimeoutError) Unwrap() error { return ErrSource }

// IsRetryable reports whether a client should retry the call: timeouts,
// rate limits, and plain transport errors qualify; provider 4xx/5xx and
// parse failures do not.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return false
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return false
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var timeoutErr *TimeoutError
	if errors.As(err, &timeoutErr) {
		return true
	}
	return errors.Is(err, ErrSource)
}
