package game

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinal     = "final"
)

// Game is one fixture between two teams in a season.
type Game struct {
	ID          string
	SeasonID    string
	HomeTeamID  string
	AwayTeamID  string
	GameDate    time.Time
	Status      string
	HomeScore   *int
	AwayScore   *int
	ExternalIDs map[string]string
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.SeasonID == "" {
		return fmt.Errorf("game season id is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game home and away teams must differ")
	}
	switch NormalizeStatus(g.Status) {
	case StatusScheduled, StatusLive, StatusFinal:
	default:
		return fmt.Errorf("invalid game status: %s", g.Status)
	}

	return nil
}

// IsFinal reports whether the game is truly over: final status with both
// scores recorded.
func (g Game) IsFinal() bool {
	return NormalizeStatus(g.Status) == StatusFinal && g.HomeScore != nil && g.AwayScore != nil
}

func NormalizeStatus(value string) string {
	status := strings.ToLower(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

// DeriveStatus computes the status from the recorded scores. Both scores
// present with at least one non-zero means the game is final; the score
// rule wins over any explicit provider status.
func DeriveStatus(homeScore, awayScore *int, explicit string) string {
	if homeScore != nil && awayScore != nil && (*homeScore != 0 || *awayScore != 0) {
		return StatusFinal
	}
	if explicit != "" {
		if status := NormalizeStatus(explicit); status == StatusLive {
			return StatusLive
		}
	}
	return StatusScheduled
}
