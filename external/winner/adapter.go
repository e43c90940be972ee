package winner

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/courtsync/courtsync/internal/domain/game"
	"github.com/courtsync/courtsync/internal/platform/logging"
	"github.com/courtsync/courtsync/internal/usecase"
)

const defaultDumpTTL = 5 * time.Minute

// Adapter exposes the league behind the uniform adapter contracts.
// Seasons, teams, and schedules all come from the single games dump, so
// the parsed dump is memoized across calls.
type Adapter struct {
	client *Client
	logger *logging.Logger

	dumpTTL time.Duration

	mu        sync.Mutex
	dump      []winnerGame
	dumpAsOf  time.Time
	dumpValid bool

	now func() time.Time
}

func NewAdapter(client *Client, logger *logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Adapter{
		client:  client,
		logger:  logger.Named("winner_adapter"),
		dumpTTL: defaultDumpTTL,
		now:     time.Now,
	}
}

func (a *Adapter) Source() string { return Source }

// allGames returns the parsed season-wide dump, refetching once the memo
// goes stale.
func (a *Adapter) allGames(ctx context.Context) ([]winnerGame, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.dumpValid && a.now().Sub(a.dumpAsOf) < a.dumpTTL {
		return a.dump, nil
	}

	result, err := a.client.FetchAllGames(ctx, false)
	if err != nil {
		return nil, err
	}
	games, err := parseAllGames(result.Data)
	if err != nil {
		return nil, err
	}

	a.dump = games
	a.dumpAsOf = a.now()
	a.dumpValid = true
	return games, nil
}

func (a *Adapter) GetSeasons(ctx context.Context) ([]usecase.RawSeason, error) {
	games, err := a.allGames(ctx)
	if err != nil {
		return nil, err
	}
	return extractSeasons(games), nil
}

func (a *Adapter) GetAvailableSeasons(ctx context.Context) ([]string, error) {
	seasons, err := a.GetSeasons(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(seasons))
	for _, s := range seasons {
		names = append(names, s.Name)
	}
	return names, nil
}

func (a *Adapter) GetTeams(ctx context.Context, seasonExternalID string) ([]usecase.RawTeam, error) {
	games, err := a.allGames(ctx)
	if err != nil {
		return nil, err
	}
	return extractTeams(games, seasonExternalID), nil
}

func (a *Adapter) GetSchedule(ctx context.Context, seasonExternalID string) ([]usecase.RawGame, error) {
	games, err := a.allGames(ctx)
	if err != nil {
		return nil, err
	}
	return mapSchedule(games, seasonExternalID), nil
}

// GetGameBoxScore fetches the JSON box score, falling back to the
// scraped game-zone page when the endpoint returns no player rows.
func (a *Adapter) GetGameBoxScore(ctx context.Context, gameExternalID string) (*usecase.RawBoxScore, error) {
	result, err := a.client.FetchBoxscore(ctx, gameExternalID, false)
	if err != nil {
		return nil, err
	}

	box, parseErr := parseBoxscore(result.Data, gameExternalID)
	if parseErr == nil && (len(box.HomePlayers) > 0 || len(box.AwayPlayers) > 0) {
		a.fillFromSchedule(ctx, box)
		return box, nil
	}

	a.logger.WarnContext(ctx, "winner box score endpoint empty, scraping game zone",
		"game_external_id", gameExternalID, "error", parseErr)

	page, err := a.client.FetchPage(ctx, "/game-zone.php?game_id="+url.QueryEscape(gameExternalID), "gamezone/"+gameExternalID, false)
	if err != nil {
		if parseErr != nil {
			return nil, parseErr
		}
		return nil, err
	}
	box, err = parseGameZoneBoxscore(page.Data, gameExternalID)
	if err != nil {
		return nil, err
	}
	a.fillFromSchedule(ctx, box)
	return box, nil
}

// fillFromSchedule backfills game fields the box score document omits
// from the schedule dump entry.
func (a *Adapter) fillFromSchedule(ctx context.Context, box *usecase.RawBoxScore) {
	games, err := a.allGames(ctx)
	if err != nil {
		a.logger.WarnContext(ctx, "winner schedule lookup failed during box score backfill", "error", err)
		return
	}
	for _, g := range games {
		if g.GameID != box.Game.ExternalID {
			continue
		}
		scheduled := mapSchedule([]winnerGame{g}, "")
		if len(scheduled) == 0 {
			return
		}
		s := scheduled[0]
		if box.Game.SeasonExternalID == "" {
			box.Game.SeasonExternalID = s.SeasonExternalID
		}
		if box.Game.HomeTeamExternalID == "" {
			box.Game.HomeTeamExternalID = s.HomeTeamExternalID
		}
		if box.Game.AwayTeamExternalID == "" {
			box.Game.AwayTeamExternalID = s.AwayTeamExternalID
		}
		if box.Game.HomeTeamName == "" {
			box.Game.HomeTeamName = s.HomeTeamName
		}
		if box.Game.AwayTeamName == "" {
			box.Game.AwayTeamName = s.AwayTeamName
		}
		if box.Game.GameDate.IsZero() {
			box.Game.GameDate = s.GameDate
		}
		return
	}
}

func (a *Adapter) GetGamePBP(ctx context.Context, gameExternalID string) ([]usecase.RawPBPEvent, map[string]int, error) {
	result, err := a.client.FetchPBP(ctx, gameExternalID, false)
	if err != nil {
		return nil, nil, err
	}
	return parsePBP(result.Data, gameExternalID)
}

func (a *Adapter) IsGameFinal(g usecase.RawGame) bool {
	return game.DeriveStatus(g.HomeScore, g.AwayScore, g.Status) == game.StatusFinal
}

func (a *Adapter) GetGamesSince(ctx context.Context, since time.Time, seasonExternalID string) ([]usecase.RawGame, error) {
	return usecase.GamesSince(ctx, a, since, seasonExternalID)
}

func (a *Adapter) GetPlayerInfo(ctx context.Context, externalID string) (*usecase.RawPlayerInfo, error) {
	page, err := a.client.FetchPage(ctx, "/player/?player_id="+url.QueryEscape(externalID), "player/"+externalID, false)
	if err != nil {
		return nil, err
	}
	return parsePlayerProfile(page.Data, externalID)
}

// SearchPlayer is unsupported here, the site has no search endpoint.
func (a *Adapter) SearchPlayer(_ context.Context, _, _ string) ([]usecase.RawPlayerInfo, error) {
	return nil, nil
}

func (a *Adapter) GetTeamRoster(ctx context.Context, teamExternalID string, fetchProfiles bool) ([]usecase.RosterEntry, error) {
	page, err := a.client.FetchPage(ctx, "/team/?team_id="+url.QueryEscape(teamExternalID), "team/"+teamExternalID, false)
	if err != nil {
		return nil, err
	}
	entries, err := parseTeamRoster(page.Data, teamExternalID)
	if err != nil {
		return nil, err
	}
	if !fetchProfiles {
		return entries, nil
	}

	for i := range entries {
		info, err := a.GetPlayerInfo(ctx, entries[i].PlayerExternalID)
		if err != nil {
			a.logger.WarnContext(ctx, "winner player profile fetch failed",
				"player_external_id", entries[i].PlayerExternalID, "error", err)
			continue
		}
		entries[i].Info = info
	}
	return entries, nil
}

var (
	_ usecase.LeagueAdapter     = (*Adapter)(nil)
	_ usecase.PlayerInfoAdapter = (*Adapter)(nil)
)
