package pbp

import "fmt"

const (
	EventShot         = "shot"
	EventFreeThrow    = "free_throw"
	EventRebound      = "rebound"
	EventAssist       = "assist"
	EventTurnover     = "turnover"
	EventSteal        = "steal"
	EventBlock        = "block"
	EventFoul         = "foul"
	EventSubstitution = "substitution"
	EventTimeout      = "timeout"
	EventJumpBall     = "jump_ball"
	EventTipOff       = "tip_off"
	EventBeginPeriod  = "begin_period"
	EventEndPeriod    = "end_period"
)

var knownEventTypes = map[string]struct{}{
	EventShot: {}, EventFreeThrow: {}, EventRebound: {}, EventAssist: {},
	EventTurnover: {}, EventSteal: {}, EventBlock: {}, EventFoul: {},
	EventSubstitution: {}, EventTimeout: {}, EventJumpBall: {}, EventTipOff: {},
	EventBeginPeriod: {}, EventEndPeriod: {},
}

func IsKnownEventType(eventType string) bool {
	_, ok := knownEventTypes[eventType]
	return ok
}

// Event is one play-by-play record. Clock is the MM:SS remaining in the
// period. EventNumber is 1-based and dense within a game.
type Event struct {
	GameID              string
	EventNumber         int
	Period              int
	Clock               string
	EventType           string
	EventSubtype        string
	TeamID              *string
	PlayerID            *string
	Success             *bool
	CoordX              *float64
	CoordY              *float64
	RelatedEventNumbers []int
}

func (e Event) Validate() error {
	if e.GameID == "" {
		return fmt.Errorf("event game id is required")
	}
	if e.EventNumber < 1 {
		return fmt.Errorf("event number must be 1-based, got %d", e.EventNumber)
	}
	if e.Period < 1 {
		return fmt.Errorf("event period must be positive, got %d", e.Period)
	}
	if !IsKnownEventType(e.EventType) {
		return fmt.Errorf("unknown event type: %s", e.EventType)
	}

	return nil
}
