package usecase

import (
	"context"
	"fmt"

	"github.com/courtsync/courtsync/internal/domain/boxscore"
	"github.com/courtsync/courtsync/internal/domain/game"
	"github.com/courtsync/courtsync/internal/domain/pbp"
	"github.com/courtsync/courtsync/internal/domain/player"
	"github.com/courtsync/courtsync/internal/domain/team"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// scoreTolerance bounds the accepted gap between a team's game score and
// the sum of its players' box-score points. Larger gaps are logged as a
// data-quality warning, not rejected.
const scoreTolerance = 5

// GameSyncer upserts games and rewrites their box-score and play-by-play
// row sets.
type GameSyncer struct {
	teamSyncer *TeamSyncer
	dedup      *PlayerDeduplicator
	teams      team.Repository
	games      game.Repository
	players    player.Repository
	stats      boxscore.Repository
	events     pbp.Repository
	ids        id.Generator
	logger     *logging.Logger
}

func NewGameSyncer(
	teamSyncer *TeamSyncer,
	dedup *PlayerDeduplicator,
	teams team.Repository,
	games game.Repository,
	players player.Repository,
	stats boxscore.Repository,
	events pbp.Repository,
	ids id.Generator,
	logger *logging.Logger,
) *GameSyncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameSyncer{
		teamSyncer: teamSyncer,
		dedup:      dedup,
		teams:      teams,
		games:      games,
		players:    players,
		stats:      stats,
		events:     events,
		ids:        ids,
		logger:     logger.Named("game_syncer"),
	}
}

// SyncGame resolves both teams (creating them eagerly with TeamSeason
// rows when missing) and upserts the game by external id. On update,
// scores, status, and date are overwritten.
func (s *GameSyncer) SyncGame(ctx context.Context, raw RawGame, seasonID, source string) (*game.Game, bool, error) {
	if raw.ExternalID == "" {
		return nil, false, fmt.Errorf("%w: game external id is required", ErrInvalidInput)
	}

	home, _, err := s.teamSyncer.SyncTeamSeason(ctx, RawTeam{
		ExternalID: raw.HomeTeamExternalID,
		Name:       raw.HomeTeamName,
	}, seasonID, source)
	if err != nil {
		return nil, false, fmt.Errorf("resolve home team for game %s: %w", raw.ExternalID, err)
	}
	away, _, err := s.teamSyncer.SyncTeamSeason(ctx, RawTeam{
		ExternalID: raw.AwayTeamExternalID,
		Name:       raw.AwayTeamName,
	}, seasonID, source)
	if err != nil {
		return nil, false, fmt.Errorf("resolve away team for game %s: %w", raw.ExternalID, err)
	}

	item := game.Game{
		SeasonID:    seasonID,
		HomeTeamID:  home.ID,
		AwayTeamID:  away.ID,
		GameDate:    raw.GameDate,
		Status:      game.DeriveStatus(raw.HomeScore, raw.AwayScore, raw.Status),
		HomeScore:   raw.HomeScore,
		AwayScore:   raw.AwayScore,
		ExternalIDs: map[string]string{source: raw.ExternalID},
	}

	existing, err := s.games.GetByExternalID(ctx, source, raw.ExternalID)
	if err != nil {
		return nil, false, fmt.Errorf("lookup game %s/%s: %w", source, raw.ExternalID, err)
	}
	created := existing == nil
	if existing != nil {
		item.ID = existing.ID
		for src, externalID := range existing.ExternalIDs {
			if _, ok := item.ExternalIDs[src]; !ok {
				item.ExternalIDs[src] = externalID
			}
		}
	} else {
		item.ID = s.ids.NewID()
	}

	if err := item.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := s.games.Upsert(ctx, item); err != nil {
		return nil, false, fmt.Errorf("upsert game %s: %w", raw.ExternalID, err)
	}
	return &item, created, nil
}

// SyncBoxScore resolves every player line and replaces the game's stats
// row set in one transaction. Returns the number of rows written.
func (s *GameSyncer) SyncBoxScore(ctx context.Context, raw *RawBoxScore, g *game.Game, source string) (int, error) {
	if raw == nil || g == nil {
		return 0, fmt.Errorf("%w: box score and game are required", ErrInvalidInput)
	}

	rows := make([]boxscore.PlayerGameStats, 0, len(raw.HomePlayers)+len(raw.AwayPlayers))
	for _, line := range raw.HomePlayers {
		row, err := s.buildStatsRow(ctx, line, g, g.HomeTeamID, source)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}
	for _, line := range raw.AwayPlayers {
		row, err := s.buildStatsRow(ctx, line, g, g.AwayTeamID, source)
		if err != nil {
			return 0, err
		}
		rows = append(rows, row)
	}

	if err := s.stats.ReplaceForGame(ctx, g.ID, rows); err != nil {
		return 0, fmt.Errorf("replace box score for game %s: %w", g.ID, err)
	}

	s.checkScoreConsistency(ctx, rows, g)
	return len(rows), nil
}

func (s *GameSyncer) buildStatsRow(ctx context.Context, line RawPlayerStats, g *game.Game, teamID, source string) (boxscore.PlayerGameStats, error) {
	resolved, _, err := s.dedup.Resolve(ctx, source, PlayerRef{
		ExternalID: line.PlayerExternalID,
		Name:       line.PlayerName,
		TeamID:     teamID,
		SeasonID:   g.SeasonID,
	})
	if err != nil {
		return boxscore.PlayerGameStats{}, fmt.Errorf("resolve player %s/%s: %w", source, line.PlayerExternalID, err)
	}

	history := player.PlayerTeamHistory{
		PlayerID:     resolved.ID,
		TeamID:       teamID,
		SeasonID:     g.SeasonID,
		JerseyNumber: line.JerseyNumber,
	}
	if err := s.players.UpsertHistory(ctx, history); err != nil {
		return boxscore.PlayerGameStats{}, fmt.Errorf("upsert player history %s: %w", resolved.ID, err)
	}

	row := boxscore.PlayerGameStats{
		ID:            s.ids.NewID(),
		GameID:        g.ID,
		PlayerID:      resolved.ID,
		TeamID:        teamID,
		SecondsPlayed: line.SecondsPlayed,
		Points:        line.Points,
		TwoPM:         line.TwoPM,
		TwoPA:         line.TwoPA,
		ThreePM:       line.ThreePM,
		ThreePA:       line.ThreePA,
		FTM:           line.FTM,
		FTA:           line.FTA,
		OffRebounds:   line.OffRebounds,
		DefRebounds:   line.DefRebounds,
		TotalRebounds: line.TotalRebounds,
		Assists:       line.Assists,
		Steals:        line.Steals,
		Blocks:        line.Blocks,
		Turnovers:     line.Turnovers,
		PersonalFouls: line.PersonalFouls,
		PlusMinus:     line.PlusMinus,
		Efficiency:    line.Efficiency,
		IsStarter:     line.IsStarter,
		JerseyNumber:  line.JerseyNumber,
	}
	if err := row.Validate(); err != nil {
		return boxscore.PlayerGameStats{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return row, nil
}

func (s *GameSyncer) checkScoreConsistency(ctx context.Context, rows []boxscore.PlayerGameStats, g *game.Game) {
	check := func(teamID string, score *int, side string) {
		if score == nil {
			return
		}
		total := boxscore.TeamPoints(rows, teamID)
		if diff := total - *score; diff > scoreTolerance || diff < -scoreTolerance {
			s.logger.WarnContext(ctx, "box score points deviate from game score",
				"game_id", g.ID, "side", side, "team_id", teamID,
				"game_score", *score, "player_points", total)
		}
	}
	check(g.HomeTeamID, g.HomeScore, "home")
	check(g.AwayTeamID, g.AwayScore, "away")
}

// SyncPBP replaces the game's event log in one transaction. Team and
// player references that cannot be resolved are stored null rather than
// rejected. jerseys maps the provider's PBP-internal player id to a
// jersey number for sources whose PBP ids differ from box-score ids.
func (s *GameSyncer) SyncPBP(ctx context.Context, rawEvents []RawPBPEvent, jerseys map[string]int, g *game.Game, source string) (int, error) {
	if g == nil {
		return 0, fmt.Errorf("%w: game is required", ErrInvalidInput)
	}

	jerseyIndex, err := s.jerseyIndex(ctx, g)
	if err != nil {
		return 0, err
	}

	events := make([]pbp.Event, 0, len(rawEvents))
	for _, raw := range rawEvents {
		event := pbp.Event{
			GameID:              g.ID,
			EventNumber:         raw.EventNumber,
			Period:              raw.Period,
			Clock:               raw.Clock,
			EventType:           raw.EventType,
			EventSubtype:        raw.EventSubtype,
			Success:             raw.Success,
			CoordX:              raw.CoordX,
			CoordY:              raw.CoordY,
			RelatedEventNumbers: raw.RelatedEventNumbers,
		}

		if teamID := s.resolveEventTeam(ctx, raw.TeamExternalID, g, source); teamID != "" {
			event.TeamID = &teamID
		}
		if playerID := s.resolveEventPlayer(ctx, raw, jerseys, jerseyIndex, event.TeamID, g, source); playerID != "" {
			event.PlayerID = &playerID
		}

		if err := event.Validate(); err != nil {
			return 0, fmt.Errorf("%w: event %d: %v", ErrInvalidInput, raw.EventNumber, err)
		}
		events = append(events, event)
	}

	if err := s.events.ReplaceForGame(ctx, g.ID, events); err != nil {
		return 0, fmt.Errorf("replace pbp for game %s: %w", g.ID, err)
	}
	return len(events), nil
}

func (s *GameSyncer) resolveEventTeam(ctx context.Context, externalID string, g *game.Game, source string) string {
	if externalID == "" {
		return ""
	}
	resolved, err := s.teams.GetByExternalID(ctx, source, externalID)
	if err != nil || resolved == nil {
		if err != nil {
			s.logger.WarnContext(ctx, "pbp team lookup failed",
				"game_id", g.ID, "team_external_id", externalID, "error", err)
		}
		return ""
	}
	return resolved.ID
}

// resolveEventPlayer tries the player's external id first, then the
// jersey fallback. The fallback is refused when the jersey is ambiguous
// within the event's team; the event keeps a null player.
func (s *GameSyncer) resolveEventPlayer(ctx context.Context, raw RawPBPEvent, jerseys map[string]int, jerseyIndex map[jerseyKey][]string, teamID *string, g *game.Game, source string) string {
	if raw.PlayerExternalID == "" {
		return ""
	}

	resolved, err := s.players.GetByExternalID(ctx, source, raw.PlayerExternalID)
	if err != nil {
		s.logger.WarnContext(ctx, "pbp player lookup failed",
			"game_id", g.ID, "player_external_id", raw.PlayerExternalID, "error", err)
		return ""
	}
	if resolved != nil {
		return resolved.ID
	}

	jersey, ok := jerseys[raw.PlayerExternalID]
	if !ok || teamID == nil {
		return ""
	}
	candidates := jerseyIndex[jerseyKey{teamID: *teamID, jersey: jersey}]
	switch len(candidates) {
	case 1:
		return candidates[0]
	case 0:
		return ""
	default:
		s.logger.WarnContext(ctx, "jersey fallback ambiguous, leaving player unresolved",
			"game_id", g.ID, "team_id", *teamID, "jersey", jersey,
			"event_number", raw.EventNumber, "candidates", len(candidates))
		return ""
	}
}

type jerseyKey struct {
	teamID string
	jersey int
}

// jerseyIndex maps (team, jersey) to player ids using the game's already
// persisted box-score rows. SyncBoxScore must run before SyncPBP for the
// fallback to have data.
func (s *GameSyncer) jerseyIndex(ctx context.Context, g *game.Game) (map[jerseyKey][]string, error) {
	rows, err := s.stats.ListByGame(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("list box score for game %s: %w", g.ID, err)
	}

	index := make(map[jerseyKey][]string, len(rows))
	for _, row := range rows {
		if row.JerseyNumber == nil {
			continue
		}
		key := jerseyKey{teamID: row.TeamID, jersey: *row.JerseyNumber}
		index[key] = append(index[key], row.PlayerID)
	}
	return index, nil
}
