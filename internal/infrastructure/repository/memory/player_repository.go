package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/courtsync/courtsync/internal/domain/player"
)

type PlayerRepository struct {
	mu        sync.RWMutex
	players   map[string]player.Player
	histories map[string]player.PlayerTeamHistory
}

func NewPlayerRepository() *PlayerRepository {
	return &PlayerRepository{
		players:   make(map[string]player.Player),
		histories: make(map[string]player.PlayerTeamHistory),
	}
}

func clonePlayer(item player.Player) player.Player {
	item.ExternalIDs = maps.Clone(item.ExternalIDs)
	return item
}

func historyKey(item player.PlayerTeamHistory) string {
	return item.PlayerID + "|" + item.TeamID + "|" + item.SeasonID
}

func (r *PlayerRepository) GetByID(_ context.Context, id string) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.players[id]
	if !ok {
		return nil, nil
	}
	out := clonePlayer(item)
	return &out, nil
}

func (r *PlayerRepository) GetByExternalID(_ context.Context, source, externalID string) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.players {
		if item.ExternalIDs[source] == externalID && externalID != "" {
			out := clonePlayer(item)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *PlayerRepository) ListByTeamSeason(_ context.Context, teamID, seasonID string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, 16)
	for _, history := range r.histories {
		if history.TeamID != teamID || history.SeasonID != seasonID {
			continue
		}
		if item, ok := r.players[history.PlayerID]; ok {
			out = append(out, clonePlayer(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) ListByBirthDate(_ context.Context, birthDate time.Time) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wantY, wantM, wantD := birthDate.Date()
	out := make([]player.Player, 0, 4)
	for _, item := range r.players {
		if item.BirthDate == nil {
			continue
		}
		y, m, d := item.BirthDate.Date()
		if y == wantY && m == wantM && d == wantD {
			out = append(out, clonePlayer(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the per-source unique indexes on players.external_ids.
	for _, existing := range r.players {
		if existing.ID == item.ID {
			continue
		}
		for source, externalID := range item.ExternalIDs {
			if externalID != "" && existing.ExternalIDs[source] == externalID {
				return fmt.Errorf("player external id %s/%s already belongs to %s", source, externalID, existing.ID)
			}
		}
	}
	r.players[item.ID] = clonePlayer(item)
	return nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.players[item.ID] = clonePlayer(item)
	return nil
}

func (r *PlayerRepository) UpsertHistory(_ context.Context, item player.PlayerTeamHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.histories[historyKey(item)] = item
	return nil
}

func (r *PlayerRepository) ListHistories(_ context.Context, teamID, seasonID string) ([]player.PlayerTeamHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.PlayerTeamHistory, 0, 16)
	for _, history := range r.histories {
		if history.TeamID == teamID && history.SeasonID == seasonID {
			out = append(out, history)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out, nil
}
