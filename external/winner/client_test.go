package winner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtsync/courtsync/internal/platform/ratelimit"
	"github.com/courtsync/courtsync/internal/usecase"
)

func TestClientBoundsRateSlotWait(t *testing.T) {
	t.Parallel()

	limiter := ratelimit.NewLimiter(0.001, 1)
	if !limiter.TryAcquire() {
		t.Fatal("expected the initial token")
	}

	client := NewClient(ClientConfig{
		APIBaseURL: "http://127.0.0.1:1",
		Timeout:    20 * time.Millisecond,
		APILimiter: limiter,
	})

	_, err := client.FetchAllGames(context.Background(), true)
	var rl *usecase.RateLimitError
	if !errors.As(err, &rl) {
		t.Fatalf("err = %v, want RateLimitError", err)
	}
	if rl.RetryAfter <= 0 {
		t.Fatalf("retry after = %v, want > 0", rl.RetryAfter)
	}
}
