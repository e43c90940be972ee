package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestBreakerTripsAfterStreak(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{TripThreshold: 3, Cooldown: time.Minute, ProbeLimit: 1})

	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("call %d should be allowed: %v", i, err)
		}
		b.Failure()
	}
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %s, want closed", got)
	}

	if err := b.Allow(); err != nil {
		t.Fatalf("third call should be allowed: %v", err)
	}
	b.Failure()

	if got := b.State(); got != BreakerOpen {
		t.Fatalf("state = %s, want open", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("err = %v, want ErrBreakerOpen", err)
	}
}

func TestBreakerSuccessResetsStreak(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{TripThreshold: 2, Cooldown: time.Minute, ProbeLimit: 1})
	b.Failure()
	b.Success()
	b.Failure()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %s, want closed", got)
	}
}

func TestBreakerHalfOpenProbes(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{TripThreshold: 1, Cooldown: 10 * time.Second, ProbeLimit: 2})
	now := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return now }

	b.Failure()
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("err = %v, want ErrBreakerOpen during cooldown", err)
	}

	now = now.Add(11 * time.Second)
	if got := b.State(); got != BreakerHalfOpen {
		t.Fatalf("state = %s, want half_open after cooldown", got)
	}

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("probe budget exhausted, got %v", err)
	}

	b.Success()
	b.Success()
	if got := b.State(); got != BreakerClosed {
		t.Fatalf("state = %s, want closed after successful probes", got)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewBreaker(BreakerConfig{TripThreshold: 1, Cooldown: 10 * time.Second, ProbeLimit: 1})
	now := time.Unix(1_700_000_000, 0)
	b.now = func() time.Time { return now }

	b.Failure()
	now = now.Add(11 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should pass: %v", err)
	}
	b.Failure()

	if got := b.State(); got != BreakerOpen {
		t.Fatalf("state = %s, want open after failed probe", got)
	}
}

func TestNormalizeBreakerConfig(t *testing.T) {
	t.Parallel()

	cfg := NormalizeBreakerConfig(BreakerConfig{})
	defaults := DefaultBreakerConfig()
	if cfg.TripThreshold != defaults.TripThreshold || cfg.Cooldown != defaults.Cooldown || cfg.ProbeLimit != defaults.ProbeLimit {
		t.Fatalf("got %+v, want defaults %+v", cfg, defaults)
	}
}
