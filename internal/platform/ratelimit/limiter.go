package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Class separates transport budgets: HTML scraping is paced more
// conservatively than JSON API calls against the same provider.
type Class string

const (
	ClassAPI    Class = "api"
	ClassScrape Class = "scrape"
)

// Limiter is a token bucket with on-demand refill. It wraps x/time/rate so
// refill math rides on the monotonic clock without a background timer.
type Limiter struct {
	mu     sync.Mutex
	rps    float64
	burst  int
	bucket *rate.Limiter
}

func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		rps:    rps,
		burst:  burst,
		bucket: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Acquire blocks until a token is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	bucket := l.bucket
	l.mu.Unlock()
	return bucket.Wait(ctx)
}

// AcquireTimeout reports whether a token was obtained within timeout.
func (l *Limiter) AcquireTimeout(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		return l.TryAcquire()
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return l.Acquire(ctx) == nil
}

// TryAcquire takes a token without blocking.
func (l *Limiter) TryAcquire() bool {
	l.mu.Lock()
	bucket := l.bucket
	l.mu.Unlock()
	return bucket.Allow()
}

// WaitTime reports how long a caller would block for the next token.
func (l *Limiter) WaitTime() time.Duration {
	l.mu.Lock()
	bucket := l.bucket
	l.mu.Unlock()

	reservation := bucket.Reserve()
	delay := reservation.Delay()
	reservation.Cancel()
	if delay < 0 {
		return 0
	}
	return delay
}

// Reset refills the bucket to capacity.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.bucket = rate.NewLimiter(rate.Limit(l.rps), l.burst)
}

// Budget is the configured pace for one (source, class) bucket.
type Budget struct {
	RPS   float64
	Burst int
}

// Registry hands out one process-wide bucket per (source, transport class).
type Registry struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	budgets  map[Class]Budget
}

func NewRegistry(budgets map[Class]Budget) *Registry {
	if budgets == nil {
		budgets = map[Class]Budget{}
	}
	return &Registry{
		limiters: make(map[string]*Limiter),
		budgets:  budgets,
	}
}

// For returns the bucket for the given source and class, creating it on
// first use from the class budget.
func (r *Registry) For(source string, class Class) *Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := source + "/" + string(class)
	if limiter, ok := r.limiters[key]; ok {
		return limiter
	}

	budget, ok := r.budgets[class]
	if !ok {
		budget = Budget{RPS: 1, Burst: 1}
	}
	limiter := NewLimiter(budget.RPS, budget.Burst)
	r.limiters[key] = limiter
	return limiter
}
