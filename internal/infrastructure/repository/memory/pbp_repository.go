package memory

import (
	"context"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/pbp"
)

type PBPRepository struct {
	mu     sync.RWMutex
	byGame map[string][]pbp.Event
}

func NewPBPRepository() *PBPRepository {
	return &PBPRepository{byGame: make(map[string][]pbp.Event)}
}

func (r *PBPRepository) ListByGame(_ context.Context, gameID string) ([]pbp.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.byGame[gameID]
	out := make([]pbp.Event, len(events))
	copy(out, events)
	return out, nil
}

func (r *PBPRepository) ReplaceForGame(_ context.Context, gameID string, events []pbp.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := make([]pbp.Event, len(events))
	copy(stored, events)
	r.byGame[gameID] = stored
	return nil
}
