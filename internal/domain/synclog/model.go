package synclog

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Entity types a sync log row can cover.
const (
	EntitySeason     = "season"
	EntityGame       = "game"
	EntityTeam       = "team"
	EntityPlayerInfo = "player_info"
	// EntityTeamMatchReview flags a cross-source team merge that matched by
	// name rather than external id, for human audit.
	EntityTeamMatchReview = "team_match_review"
)

// SyncLog is one sync run's audit row with its outcome counters.
type SyncLog struct {
	ID               string
	Source           string
	EntityType       string
	SeasonID         *string
	GameID           *string
	Status           string
	StartedAt        time.Time
	CompletedAt      *time.Time
	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsSkipped   int
	ErrorMessage     string
	ErrorDetails     string
}

func (l SyncLog) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("sync log id is required")
	}
	if l.Source == "" {
		return fmt.Errorf("sync log source is required")
	}
	if l.EntityType == "" {
		return fmt.Errorf("sync log entity type is required")
	}
	switch NormalizeStatus(l.Status) {
	case StatusRunning, StatusCompleted, StatusFailed:
	default:
		return fmt.Errorf("invalid sync log status: %s", l.Status)
	}

	return nil
}

func NormalizeStatus(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// TrackedGame marks one (source, external game id) as fully ingested.
type TrackedGame struct {
	Source         string
	GameExternalID string
	GameID         string
	SyncedAt       time.Time
}

func (t TrackedGame) Validate() error {
	if t.Source == "" {
		return fmt.Errorf("tracked game source is required")
	}
	if t.GameExternalID == "" {
		return fmt.Errorf("tracked game external id is required")
	}
	if t.GameID == "" {
		return fmt.Errorf("tracked game game id is required")
	}

	return nil
}
