package ratelimit

import (
	"math/rand"
	"time"
)

const (
	DefaultBackoffBase = 500 * time.Millisecond
	DefaultBackoffMax  = 30 * time.Second
)

// Backoff returns the sleep before retry number attempt (0-based):
// min(base * 2^attempt, max), scaled by a jitter factor in [1.0, 1.5) when
// jitter is enabled. Non-decreasing in attempt up to the cap.
func Backoff(attempt int, base, max time.Duration, jitter bool) time.Duration {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if max <= 0 {
		max = DefaultBackoffMax
	}
	if attempt < 0 {
		attempt = 0
	}

	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			delay = max
			break
		}
	}
	if delay > max {
		delay = max
	}

	if jitter {
		delay = time.Duration(float64(delay) * (1 + rand.Float64()*0.5))
	}
	return delay
}
