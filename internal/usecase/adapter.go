package usecase

import (
	"context"
	"time"
)

// Raw DTOs are the canonical, source-independent shapes mappers emit.
// They carry provider identifiers only; resolution to internal ids
// happens in the matchers and syncers.

type RawSeason struct {
	Name       string
	ExternalID string
	// SourceID preserves the provider's own season identifier (e.g. the
	// Euroleague competition code E2024) for later calls.
	SourceID  string
	StartDate time.Time
	EndDate   time.Time
}

type RawTeam struct {
	ExternalID string
	Name       string
	ShortName  string
	City       string
	Country    string
}

type RawGame struct {
	ExternalID         string
	SeasonExternalID   string
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeTeamName       string
	AwayTeamName       string
	GameDate           time.Time
	Status             string
	HomeScore          *int
	AwayScore          *int
}

type RawPlayerStats struct {
	PlayerExternalID string
	PlayerName       string
	TeamExternalID   string
	JerseyNumber     *int
	SecondsPlayed    int
	IsStarter        bool
	Points           int
	TwoPM            int
	TwoPA            int
	ThreePM          int
	ThreePA          int
	FTM              int
	FTA              int
	OffRebounds      int
	DefRebounds      int
	TotalRebounds    int
	Assists          int
	Steals           int
	Blocks           int
	Turnovers        int
	PersonalFouls    int
	PlusMinus        int
	Efficiency       int
}

type RawBoxScore struct {
	Game        RawGame
	HomePlayers []RawPlayerStats
	AwayPlayers []RawPlayerStats
}

type RawPBPEvent struct {
	EventNumber         int
	Period              int
	Clock               string
	EventType           string
	EventSubtype        string
	TeamExternalID      string
	PlayerExternalID    string
	Success             *bool
	CoordX              *float64
	CoordY              *float64
	RelatedEventNumbers []int
}

type RawPlayerInfo struct {
	ExternalID     string
	FirstName      string
	LastName       string
	BirthDate      *time.Time
	HeightCM       *int
	Position       string
	Nationality    string
	JerseyNumber   *int
	TeamExternalID string
}

// RosterEntry is one player on a scraped team roster. Info is present
// only when the profile page was fetched.
type RosterEntry struct {
	PlayerExternalID string
	PlayerName       string
	Info             *RawPlayerInfo
}

// LeagueAdapter is the uniform per-source contract for schedule, box
// score, and play-by-play data.
type LeagueAdapter interface {
	Source() string
	GetSeasons(ctx context.Context) ([]RawSeason, error)
	GetAvailableSeasons(ctx context.Context) ([]string, error)
	GetTeams(ctx context.Context, seasonExternalID string) ([]RawTeam, error)
	GetSchedule(ctx context.Context, seasonExternalID string) ([]RawGame, error)
	GetGameBoxScore(ctx context.Context, gameExternalID string) (*RawBoxScore, error)
	// GetGamePBP returns the ordered events plus a provider-internal player
	// id to jersey number map for sources whose PBP identifiers do not
	// match box-score identifiers.
	GetGamePBP(ctx context.Context, gameExternalID string) ([]RawPBPEvent, map[string]int, error)
	IsGameFinal(game RawGame) bool
	GetGamesSince(ctx context.Context, since time.Time, seasonExternalID string) ([]RawGame, error)
}

// PlayerInfoAdapter is the uniform per-source contract for biographical
// player data.
type PlayerInfoAdapter interface {
	Source() string
	GetPlayerInfo(ctx context.Context, externalID string) (*RawPlayerInfo, error)
	SearchPlayer(ctx context.Context, name, teamName string) ([]RawPlayerInfo, error)
	GetTeamRoster(ctx context.Context, teamExternalID string, fetchProfiles bool) ([]RosterEntry, error)
}

// GamesSince is the shared default for LeagueAdapter.GetGamesSince:
// schedule filtered to final games on or after the cutoff.
func GamesSince(ctx context.Context, adapter LeagueAdapter, since time.Time, seasonExternalID string) ([]RawGame, error) {
	schedule, err := adapter.GetSchedule(ctx, seasonExternalID)
	if err != nil {
		return nil, err
	}

	out := make([]RawGame, 0, len(schedule))
	for _, g := range schedule {
		if g.GameDate.Before(since) {
			continue
		}
		if !adapter.IsGameFinal(g) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}
