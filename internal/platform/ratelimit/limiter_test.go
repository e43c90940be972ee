package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiterBurstThenDeny(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(1, 3)
	for i := 0; i < 3; i++ {
		if !limiter.TryAcquire() {
			t.Fatalf("token %d should be available", i)
		}
	}
	if limiter.TryAcquire() {
		t.Fatal("bucket should be empty")
	}
	if limiter.WaitTime() <= 0 {
		t.Fatal("expected positive wait after exhausting the burst")
	}
}

func TestLimiterReset(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(0.001, 2)
	limiter.TryAcquire()
	limiter.TryAcquire()
	if limiter.TryAcquire() {
		t.Fatal("bucket should be empty")
	}

	limiter.Reset()
	if !limiter.TryAcquire() {
		t.Fatal("reset should refill the bucket")
	}
	if limiter.WaitTime() <= 0 {
		t.Fatal("second token should not be free at this rate")
	}
}

func TestLimiterAcquireHonorsContext(t *testing.T) {
	t.Parallel()

	limiter := NewLimiter(0.001, 1)
	if !limiter.TryAcquire() {
		t.Fatal("first token should be available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.Acquire(ctx); err == nil {
		t.Fatal("expected deadline error")
	}
}

func TestRegistrySeparatesSourcesAndClasses(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(map[Class]Budget{
		ClassAPI:    {RPS: 10, Burst: 5},
		ClassScrape: {RPS: 1, Burst: 1},
	})

	api := registry.For("winner", ClassAPI)
	if again := registry.For("winner", ClassAPI); again != api {
		t.Fatal("same source and class should share one bucket")
	}
	if scrape := registry.For("winner", ClassScrape); scrape == api {
		t.Fatal("classes should not share a bucket")
	}
	if other := registry.For("euroleague", ClassAPI); other == api {
		t.Fatal("sources should not share a bucket")
	}
}
