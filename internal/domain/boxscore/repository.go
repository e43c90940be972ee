package boxscore

import "context"

// Repository exposes box-score persistence. ReplaceForGame swaps the full
// row set of one game in a single transaction.
type Repository interface {
	ListByGame(ctx context.Context, gameID string) ([]PlayerGameStats, error)
	ReplaceForGame(ctx context.Context, gameID string, rows []PlayerGameStats) error
}
