package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues map[string]league.League
	seasons map[string]league.Season
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		leagues: make(map[string]league.League),
		seasons: make(map[string]league.Season),
	}
}

func (r *LeagueRepository) GetByCode(_ context.Context, code string) (*league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.leagues {
		if item.Code == code {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (r *LeagueRepository) Upsert(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leagues[item.ID] = item
	return nil
}

func (r *LeagueRepository) GetSeason(_ context.Context, leagueID, name string) (*league.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.seasons {
		if item.LeagueID == leagueID && item.Name == name {
			out := item
			return &out, nil
		}
	}
	return nil, nil
}

func (r *LeagueRepository) UpsertSeason(_ context.Context, item league.Season) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seasons[item.ID] = item
	return nil
}

func (r *LeagueRepository) ListSeasons(_ context.Context, leagueID string) ([]league.Season, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.Season, 0, len(r.seasons))
	for _, item := range r.seasons {
		if item.LeagueID == leagueID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}
