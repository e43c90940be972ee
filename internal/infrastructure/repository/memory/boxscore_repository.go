package memory

import (
	"context"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/boxscore"
)

type BoxscoreRepository struct {
	mu     sync.RWMutex
	byGame map[string][]boxscore.PlayerGameStats
}

func NewBoxscoreRepository() *BoxscoreRepository {
	return &BoxscoreRepository{byGame: make(map[string][]boxscore.PlayerGameStats)}
}

func (r *BoxscoreRepository) ListByGame(_ context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byGame[gameID]
	out := make([]boxscore.PlayerGameStats, len(rows))
	copy(out, rows)
	return out, nil
}

func (r *BoxscoreRepository) ReplaceForGame(_ context.Context, gameID string, rows []boxscore.PlayerGameStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]boxscore.PlayerGameStats, len(rows))
	copy(stored, rows)
	r.byGame[gameID] = stored
	return nil
}
