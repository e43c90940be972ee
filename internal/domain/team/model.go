package team

import "fmt"

// Team is one basketball club. ExternalIDs maps source name to that
// provider's identifier and is the cross-source identity anchor.
type Team struct {
	ID          string
	Name        string
	ShortName   string
	City        string
	Country     string
	ExternalIDs map[string]string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	for source, externalID := range t.ExternalIDs {
		if source == "" || externalID == "" {
			return fmt.Errorf("team external id mapping must not contain empty keys or values")
		}
	}

	return nil
}

// ExternalID returns the team's identifier on the given source.
func (t Team) ExternalID(source string) (string, bool) {
	id, ok := t.ExternalIDs[source]
	return id, ok
}

// TeamSeason records that a team participates in a season.
type TeamSeason struct {
	TeamID   string
	SeasonID string
}

func (ts TeamSeason) Validate() error {
	if ts.TeamID == "" {
		return fmt.Errorf("team season team id is required")
	}
	if ts.SeasonID == "" {
		return fmt.Errorf("team season season id is required")
	}

	return nil
}
