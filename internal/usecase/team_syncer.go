package usecase

import (
	"context"
	"fmt"

	"github.com/courtsync/courtsync/internal/domain/team"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// TeamSyncer upserts teams and their season participation through the
// matcher.
type TeamSyncer struct {
	matcher *TeamMatcher
	teams   team.Repository
	logger  *logging.Logger
}

func NewTeamSyncer(matcher *TeamMatcher, teams team.Repository, logger *logging.Logger) *TeamSyncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &TeamSyncer{
		matcher: matcher,
		teams:   teams,
		logger:  logger.Named("team_syncer"),
	}
}

// SyncTeamSeason resolves the team and guarantees its TeamSeason row.
func (s *TeamSyncer) SyncTeamSeason(ctx context.Context, raw RawTeam, seasonID, source string) (*team.Team, bool, error) {
	resolved, created, err := s.matcher.Resolve(ctx, raw, seasonID, source)
	if err != nil {
		return nil, false, err
	}

	ts := team.TeamSeason{TeamID: resolved.ID, SeasonID: seasonID}
	if err := ts.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.teams.EnsureTeamSeason(ctx, ts); err != nil {
		return nil, false, fmt.Errorf("ensure team season %s/%s: %w", resolved.ID, seasonID, err)
	}

	if created {
		s.logger.InfoContext(ctx, "created team",
			"team_id", resolved.ID, "name", resolved.Name, "source", source)
	}
	return resolved, created, nil
}
