package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/courtsync/courtsync/internal/domain/synclog"
	"github.com/courtsync/courtsync/internal/domain/team"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// TeamMatcher resolves a RawTeam against the store: external id first,
// then exact normalized name within the season, then create.
type TeamMatcher struct {
	teams    team.Repository
	syncLogs synclog.Repository
	ids      id.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewTeamMatcher(teams team.Repository, syncLogs synclog.Repository, ids id.Generator, logger *logging.Logger) *TeamMatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamMatcher{
		teams:    teams,
		syncLogs: syncLogs,
		ids:      ids,
		logger:   logger.Named("team_matcher"),
		now:      time.Now,
	}
}

// Resolve returns the canonical team for raw, creating one when nothing
// matches. created reports whether a new row was inserted.
func (m *TeamMatcher) Resolve(ctx context.Context, raw RawTeam, seasonID, source string) (*team.Team, bool, error) {
	externalID := strings.TrimSpace(raw.ExternalID)
	if externalID == "" {
		return nil, false, fmt.Errorf("%w: team external id is required", ErrInvalidInput)
	}
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return nil, false, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	existing, err := m.teams.GetByExternalID(ctx, source, externalID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup team by external id %s/%s: %w", source, externalID, err)
	}
	if existing != nil {
		return existing, false, nil
	}

	matched, err := m.matchByName(ctx, name, seasonID, source)
	if err != nil {
		return nil, false, err
	}
	if matched != nil {
		if matched.ExternalIDs == nil {
			matched.ExternalIDs = make(map[string]string, 1)
		}
		matched.ExternalIDs[source] = externalID
		if err := m.teams.Update(ctx, *matched); err != nil {
			return nil, false, fmt.Errorf("attach external id to team %s: %w", matched.ID, err)
		}
		m.flagMergeForReview(ctx, *matched, source, externalID, seasonID)
		return matched, false, nil
	}

	created := team.Team{
		ID:          m.ids.NewID(),
		Name:        name,
		ShortName:   strings.TrimSpace(raw.ShortName),
		City:        strings.TrimSpace(raw.City),
		Country:     strings.TrimSpace(raw.Country),
		ExternalIDs: map[string]string{source: externalID},
	}
	if err := created.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := m.teams.Create(ctx, created); err != nil {
		// A concurrent sync may have inserted the same (source,
		// external id) first; the unique index rejects this copy.
		winner, lookupErr := m.teams.GetByExternalID(ctx, source, externalID)
		if lookupErr == nil && winner != nil {
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("create team %q: %w", name, err)
	}
	return &created, true, nil
}

// matchByName looks for an exact normalized-name match among the season's
// teams. Multiple candidates resolve deterministically: prefer a row
// already carrying this source's id, otherwise the lexicographically
// smallest id.
func (m *TeamMatcher) matchByName(ctx context.Context, name, seasonID, source string) (*team.Team, error) {
	if seasonID == "" {
		return nil, nil
	}
	candidates, err := m.teams.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season %s teams: %w", seasonID, err)
	}

	normalized := NormalizeName(name)
	matches := make([]team.Team, 0, 1)
	for _, candidate := range candidates {
		if NormalizeName(candidate.Name) == normalized {
			matches = append(matches, candidate)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}

	if len(matches) > 1 {
		for _, candidate := range matches {
			if _, ok := candidate.ExternalIDs[source]; ok {
				candidate := candidate
				return &candidate, nil
			}
		}
		sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
		m.logger.WarnContext(ctx, "ambiguous team name match, picking smallest id",
			"name", name, "season_id", seasonID, "candidates", len(matches))
	}
	match := matches[0]
	return &match, nil
}

// flagMergeForReview records a cross-source merge that matched by name
// only. False merges are possible for teams sharing short names across
// leagues, so a human gets an audit row instead of a silent join.
func (m *TeamMatcher) flagMergeForReview(ctx context.Context, matched team.Team, source, externalID, seasonID string) {
	now := m.now().UTC()
	entry := synclog.SyncLog{
		ID:          m.ids.NewID(),
		Source:      source,
		EntityType:  synclog.EntityTeamMatchReview,
		SeasonID:    &seasonID,
		Status:      synclog.StatusCompleted,
		StartedAt:   now,
		CompletedAt: &now,
		ErrorMessage: fmt.Sprintf("team %s (%s) merged by name match with external id %s/%s",
			matched.ID, matched.Name, source, externalID),
	}
	if err := m.syncLogs.Create(ctx, entry); err != nil {
		m.logger.WarnContext(ctx, "failed to record team match review",
			"team_id", matched.ID, "source", source, "error", err)
	}
}
