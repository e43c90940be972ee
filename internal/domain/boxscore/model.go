package boxscore

import "fmt"

// PlayerGameStats is the full box-score line of one player in one game.
// Minutes are stored as whole seconds.
type PlayerGameStats struct {
	ID            string
	GameID        string
	PlayerID      string
	TeamID        string
	SecondsPlayed int
	Points        int
	TwoPM         int
	TwoPA         int
	ThreePM       int
	ThreePA       int
	FTM           int
	FTA           int
	OffRebounds   int
	DefRebounds   int
	TotalRebounds int
	Assists       int
	Steals        int
	Blocks        int
	Turnovers     int
	PersonalFouls int
	PlusMinus     int
	Efficiency    int
	IsStarter     bool
	JerseyNumber  *int
}

func (s PlayerGameStats) Validate() error {
	if s.GameID == "" {
		return fmt.Errorf("stats game id is required")
	}
	if s.PlayerID == "" {
		return fmt.Errorf("stats player id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("stats team id is required")
	}
	if s.SecondsPlayed < 0 {
		return fmt.Errorf("stats seconds played must not be negative")
	}

	return nil
}

// TeamPoints sums the points of one team's rows.
func TeamPoints(rows []PlayerGameStats, teamID string) int {
	total := 0
	for _, row := range rows {
		if row.TeamID == teamID {
			total += row.Points
		}
	}
	return total
}
