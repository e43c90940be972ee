package euroleague

import (
	"context"
	"strings"
	"time"

	"github.com/courtsync/courtsync/internal/domain/game"
	"github.com/courtsync/courtsync/internal/domain/league"
	"github.com/courtsync/courtsync/internal/platform/logging"
	"github.com/courtsync/courtsync/internal/usecase"
)

const defaultSeasonDepth = 3

type AdapterConfig struct {
	// Competition is the one-letter tag in season codes, E by default.
	Competition string
	// SeasonDepth is how many seasons back GetSeasons reaches, counting
	// the current one.
	SeasonDepth int
	Logger      *logging.Logger
}

// Adapter exposes the competition behind the uniform adapter contracts.
// The provider has no season listing endpoint, so seasons are generated
// from the current date backwards.
type Adapter struct {
	client      *Client
	competition string
	seasonDepth int
	logger      *logging.Logger
	now         func() time.Time
}

func NewAdapter(client *Client, cfg AdapterConfig) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	competition := cfg.Competition
	if competition == "" {
		competition = "E"
	}
	depth := cfg.SeasonDepth
	if depth < 1 {
		depth = defaultSeasonDepth
	}
	return &Adapter{
		client:      client,
		competition: competition,
		seasonDepth: depth,
		logger:      logger.Named("euroleague_adapter"),
		now:         time.Now,
	}
}

func (a *Adapter) Source() string { return Source }

// currentStartYear is the start year of the season covering now. From
// July onward the new season's year is current.
func (a *Adapter) currentStartYear() int {
	now := a.now().UTC()
	year := now.Year()
	if now.Month() < time.July {
		year--
	}
	return year
}

func (a *Adapter) GetSeasons(_ context.Context) ([]usecase.RawSeason, error) {
	current := a.currentStartYear()
	out := make([]usecase.RawSeason, 0, a.seasonDepth)
	for year := current; year > current-a.seasonDepth; year-- {
		out = append(out, SeasonForYear(year, a.competition))
	}
	return out, nil
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

// codeFor resolves a season external id to the provider season code.
// Both the normalized name and a raw code like E2024 are accepted; an
// empty id means the season covering now.
func (a *Adapter) codeFor(seasonExternalID string) (code, seasonName string, err error) {
	if strings.TrimSpace(seasonExternalID) == "" {
		year := a.currentStartYear()
		return seasonCode(year, a.competition), league.SeasonName(year), nil
	}
	name, err := league.NormalizeSeasonName(seasonExternalID)
	if err != nil {
		return "", "", err
	}
	code, err = seasonCodeFor(name, a.competition)
	if err != nil {
		return "", "", err
	}
	return code, name, nil
}

func (a *Adapter) GetTeams(ctx context.Context, seasonExternalID string) ([]usecase.RawTeam, error) {
	code, _, err := a.codeFor(seasonExternalID)
	if err != nil {
		return nil, err
	}
	result, err := a.client.FetchTeams(ctx, code, false)
	if err != nil {
		return nil, err
	}
	return parseTeams(result.Data, code)
}

func (a *Adapter) GetSchedule(ctx context.Context, seasonExternalID string) ([]usecase.RawGame, error) {
	code, name, err := a.codeFor(seasonExternalID)
	if err != nil {
		return nil, err
	}
	result, err := a.client.FetchSchedule(ctx, code, false)
	if err != nil {
		return nil, err
	}
	return parseSchedule(result.Data, code, name)
}

// GetGameBoxScore fetches the live box score and header. A missing
// header degrades to a box score without team metadata.
func (a *Adapter) GetGameBoxScore(ctx context.Context, gameExternalID string) (*usecase.RawBoxScore, error) {
	code, gameCode, err := splitGameExternalID(gameExternalID)
	if err != nil {
		return nil, err
	}

	boxResult, err := a.client.FetchBoxscore(ctx, code, gameCode, false)
	if err != nil {
		return nil, err
	}

	var headerData []byte
	headerResult, err := a.client.FetchHeader(ctx, code, gameCode, false)
	if err != nil {
		a.logger.WarnContext(ctx, "euroleague header fetch failed",
			"game_external_id", gameExternalID, "error", err)
	} else {
		headerData = headerResult.Data
	}

	seasonName, err := league.NormalizeSeasonName(code)
	if err != nil {
		seasonName = ""
	}
	return parseBoxscore(boxResult.Data, headerData, gameExternalID, seasonName)
}

func (a *Adapter) GetGamePBP(ctx context.Context, gameExternalID string) ([]usecase.RawPBPEvent, map[string]int, error) {
	code, gameCode, err := splitGameExternalID(gameExternalID)
	if err != nil {
		return nil, nil, err
	}
	result, err := a.client.FetchPBP(ctx, code, gameCode, false)
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
	code := seasonCode(a.currentStartYear(), a.competition)
	result, err := a.client.FetchPlayer(ctx, externalID, code, false)
	if err != nil {
		return nil, err
	}
	players, err := parsePlayers(result.Data, code+"/"+externalID)
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].ExternalID == externalID {
			return &players[i], nil
		}
	}
	if len(players) > 0 {
		return &players[0], nil
	}
	return nil, nil
}

// SearchPlayer is unsupported, the feed is keyed by player code only.
func (a *Adapter) SearchPlayer(_ context.Context, _, _ string) ([]usecase.RawPlayerInfo, error) {
	return nil, nil
}

// GetTeamRoster is unsupported, rosters come in through box scores.
func (a *Adapter) GetTeamRoster(_ context.Context, _ string, _ bool) ([]usecase.RosterEntry, error) {
	return nil, nil
}

var (
	_ usecase.LeagueAdapter     = (*Adapter)(nil)
	_ usecase.PlayerInfoAdapter = (*Adapter)(nil)
)
