package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/game"
)

type GameRepository struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameRepository() *GameRepository {
	return &GameRepository{games: make(map[string]game.Game)}
}

func cloneGame(item game.Game) game.Game {
	item.ExternalIDs = maps.Clone(item.ExternalIDs)
	return item
}

func (r *GameRepository) GetByID(_ context.Context, id string) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.games[id]
	if !ok {
		return nil, nil
	}
	out := cloneGame(item)
	return &out, nil
}

func (r *GameRepository) GetByExternalID(_ context.Context, source, externalID string) (*game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.games {
		if item.ExternalIDs[source] == externalID && externalID != "" {
			out := cloneGame(item)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *GameRepository) ListBySeason(_ context.Context, seasonID string) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0, 32)
	for _, item := range r.games {
		if item.SeasonID == seasonID {
			out = append(out, cloneGame(item))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].GameDate.Equal(out[j].GameDate) {
			return out[i].GameDate.Before(out[j].GameDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *GameRepository) Upsert(_ context.Context, item game.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the per-source unique indexes on games.external_ids.
	for _, existing := range r.games {
		if existing.ID == item.ID {
			continue
		}
		for source, externalID := range item.ExternalIDs {
			if externalID != "" && existing.ExternalIDs[source] == externalID {
				return fmt.Errorf("game external id %s/%s already belongs to %s", source, externalID, existing.ID)
			}
		}
	}
	r.games[item.ID] = cloneGame(item)
	return nil
}
