package ratelimit

import (
	"testing"
	"time"
)

func TestBackoffDoublesUpToCap(t *testing.T) {
	t.Parallel()

	base := 100 * time.Millisecond
	max := 2 * time.Second

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		1600 * time.Millisecond,
		2 * time.Second,
		2 * time.Second,
	}
	for attempt, expected := range want {
		got := Backoff(attempt, base, max, false)
		if got != expected {
			t.Fatalf("attempt %d: got %v want %v", attempt, got, expected)
		}
	}
}

func TestBackoffNonDecreasingAndBoundedWithJitter(t *testing.T) {
	t.Parallel()

	base := 50 * time.Millisecond
	max := time.Second

	prevFloor := time.Duration(0)
	for attempt := 0; attempt < 12; attempt++ {
		floor := Backoff(attempt, base, max, false)
		if floor < prevFloor {
			t.Fatalf("attempt %d: floor %v decreased below %v", attempt, floor, prevFloor)
		}
		prevFloor = floor

		for i := 0; i < 50; i++ {
			got := Backoff(attempt, base, max, true)
			if got < floor {
				t.Fatalf("attempt %d: jittered %v below floor %v", attempt, got, floor)
			}
			if limit := time.Duration(float64(max) * 1.5); got >= limit {
				t.Fatalf("attempt %d: jittered %v not below %v", attempt, got, limit)
			}
		}
	}
}

func TestBackoffDefaults(t *testing.T) {
	t.Parallel()

	if got := Backoff(0, 0, 0, false); got != DefaultBackoffBase {
		t.Fatalf("got %v want %v", got, DefaultBackoffBase)
	}
	if got := Backoff(-3, 0, 0, false); got != DefaultBackoffBase {
		t.Fatalf("negative attempt: got %v want %v", got, DefaultBackoffBase)
	}
	if got := Backoff(100, 0, 0, false); got != DefaultBackoffMax {
		t.Fatalf("large attempt: got %v want %v", got, DefaultBackoffMax)
	}
}
