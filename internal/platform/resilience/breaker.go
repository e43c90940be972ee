package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("breaker is open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

type BreakerConfig struct {
	Enabled       bool
	TripThreshold int
	Cooldown      time.Duration
	ProbeLimit    int
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Enabled:       true,
		TripThreshold: 5,
		Cooldown:      15 * time.Second,
		ProbeLimit:    2,
	}
}

func NormalizeBreakerConfig(cfg BreakerConfig) BreakerConfig {
	defaults := DefaultBreakerConfig()
	if cfg.TripThreshold < 1 {
		cfg.TripThreshold = defaults.TripThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaults.Cooldown
	}
	if cfg.ProbeLimit < 1 {
		cfg.ProbeLimit = defaults.ProbeLimit
	}
	return cfg
}

// Breaker trips after a run of consecutive failures, rejects calls for a
// cooldown, then admits a bounded number of probe calls before closing again.
type Breaker struct {
	mu sync.Mutex

	tripThreshold int
	cooldown      time.Duration
	probeLimit    int

	state          BreakerState
	failureStreak  int
	trippedAt      time.Time
	probesInFlight int
	probeSuccesses int
	now            func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	cfg = NormalizeBreakerConfig(cfg)
	return &Breaker{
		tripThreshold: cfg.TripThreshold,
		cooldown:      cfg.Cooldown,
		probeLimit:    cfg.ProbeLimit,
		state:         BreakerClosed,
		now:           time.Now,
	}
}

// Allow reports whether a call may proceed. Callers must follow up with
// Success or Failure for every admitted call.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen {
		if b.now().Sub(b.trippedAt) < b.cooldown {
			return ErrBreakerOpen
		}
		b.state = BreakerHalfOpen
		b.probesInFlight = 0
		b.probeSuccesses = 0
	}

	if b.state == BreakerHalfOpen {
		if b.probesInFlight >= b.probeLimit {
			return ErrBreakerOpen
		}
		b.probesInFlight++
	}

	return nil
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureStreak = 0
	case BreakerHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.probeSuccesses++
		if b.probeSuccesses >= b.probeLimit && b.probesInFlight == 0 {
			b.state = BreakerClosed
			b.failureStreak = 0
			b.trippedAt = time.Time{}
		}
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureStreak++
		if b.failureStreak >= b.tripThreshold {
			b.trip()
		}
	case BreakerHalfOpen:
		if b.probesInFlight > 0 {
			b.probesInFlight--
		}
		b.trip()
	case BreakerOpen:
		b.trippedAt = b.now()
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.now().Sub(b.trippedAt) >= b.cooldown {
		return BreakerHalfOpen
	}
	return b.state
}

func (b *Breaker) trip() {
	b.state = BreakerOpen
	b.trippedAt = b.now()
	b.probesInFlight = 0
	b.probeSuccesses = 0
}
