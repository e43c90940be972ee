package player

import (
	"fmt"
	"strings"
	"time"
)

// Player is one athlete across all sources. ExternalIDs maps source name
// to that provider's identifier.
type Player struct {
	ID          string
	FirstName   string
	LastName    string
	BirthDate   *time.Time
	HeightCM    *int
	Position    string
	Nationality string
	ExternalIDs map[string]string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("player name is required")
	}
	for source, externalID := range p.ExternalIDs {
		if source == "" || externalID == "" {
			return fmt.Errorf("player external id mapping must not contain empty keys or values")
		}
	}

	return nil
}

func (p Player) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// ExternalID returns the player's identifier on the given source.
func (p Player) ExternalID(source string) (string, bool) {
	id, ok := p.ExternalIDs[source]
	return id, ok
}

// PlayerTeamHistory records one stint of a player on a team within a
// season. A traded player has one row per team.
type PlayerTeamHistory struct {
	PlayerID     string
	TeamID       string
	SeasonID     string
	JerseyNumber *int
	Position     string
}

func (h PlayerTeamHistory) Validate() error {
	if h.PlayerID == "" {
		return fmt.Errorf("player team history player id is required")
	}
	if h.TeamID == "" {
		return fmt.Errorf("player team history team id is required")
	}
	if h.SeasonID == "" {
		return fmt.Errorf("player team history season id is required")
	}

	return nil
}
