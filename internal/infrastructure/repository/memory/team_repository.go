package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/team"
)

type TeamRepository struct {
	mu          sync.RWMutex
	teams       map[string]team.Team
	teamSeasons map[string]map[string]struct{}
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams:       make(map[string]team.Team),
		teamSeasons: make(map[string]map[string]struct{}),
	}
}

func cloneTeam(item team.Team) team.Team {
	item.ExternalIDs = maps.Clone(item.ExternalIDs)
	return item
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	if !ok {
		return nil, nil
	}
	out := cloneTeam(item)
	return &out, nil
}

func (r *TeamRepository) GetByExternalID(_ context.Context, source, externalID string) (*team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.ExternalIDs[source] == externalID && externalID != "" {
			out := cloneTeam(item)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.teamSeasons[seasonID]
	out := make([]team.Team, 0, len(members))
	for teamID := range members {
		if item, ok := r.teams[teamID]; ok {
			out = append(out, cloneTeam(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirrors the per-source unique indexes on teams.external_ids.
	for _, existing := range r.teams {
		if existing.ID == item.ID {
			continue
		}
		for source, externalID := range item.ExternalIDs {
			if externalID != "" && existing.ExternalIDs[source] == externalID {
				return fmt.Errorf("team external id %s/%s already belongs to %s", source, externalID, existing.ID)
			}
		}
	}
	r.teams[item.ID] = cloneTeam(item)
	return nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[item.ID] = cloneTeam(item)
	return nil
}

func (r *TeamRepository) EnsureTeamSeason(_ context.Context, item team.TeamSeason) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.teamSeasons[item.SeasonID]
	if !ok {
		members = make(map[string]struct{})
		r.teamSeasons[item.SeasonID] = members
	}
	members[item.TeamID] = struct{}{}
	return nil
}
