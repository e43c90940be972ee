package pbp

import "context"

// Repository exposes play-by-play persistence. ReplaceForGame swaps the
// full event log of one game in a single transaction, preserving order.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]Event, error)
	ReplaceForGame(ctx context.Context, gameID string, events []Event) error
}
