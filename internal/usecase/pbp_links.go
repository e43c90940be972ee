package usecase

import "github.com/courtsync/courtsync/internal/domain/pbp"

// defaultLinkWindow bounds the backward scan when linking related events.
// It is a heuristic: related plays are always near each other in the log.
const defaultLinkWindow = 10

// InferPBPLinks populates RelatedEventNumbers on the ordered event list.
// Each event is scanned backward over the prior events of the same period
// and linked to the first one matching a rule:
//
//   - assist  -> made shot, same team, within 2s
//   - rebound -> missed shot, within 3s
//   - steal   -> turnover, different teams, within 2s
//   - block   -> missed shot, within 1s either way
//   - free throw -> foul, within 5s
//
// Events with no match keep a nil RelatedEventNumbers.
func InferPBPLinks(events []RawPBPEvent) {
	inferPBPLinks(events, defaultLinkWindow)
}

func inferPBPLinks(events []RawPBPEvent, window int) {
	if window < 1 {
		window = defaultLinkWindow
	}

	for i := range events {
		event := &events[i]
		eventSeconds := ClockToSeconds(event.Clock)
		if eventSeconds < 0 {
			continue
		}

		for j := i - 1; j >= 0 && i-j <= window; j-- {
			prev := events[j]
			if prev.Period != event.Period {
				break
			}
			prevSeconds := ClockToSeconds(prev.Clock)
			if prevSeconds < 0 {
				continue
			}

			// The clock counts down, so a positive delta means prev
			// happened earlier in wall time.
			delta := prevSeconds - eventSeconds
			if linkRuleMatches(*event, prev, delta) {
				event.RelatedEventNumbers = []int{prev.EventNumber}
				break
			}
		}
	}
}

func linkRuleMatches(event, prev RawPBPEvent, delta int) bool {
	switch event.EventType {
	case pbp.EventAssist:
		return prev.EventType == pbp.EventShot &&
			prev.Success != nil && *prev.Success &&
			prev.TeamExternalID == event.TeamExternalID &&
			delta >= 0 && delta <= 2
	case pbp.EventRebound:
		return prev.EventType == pbp.EventShot &&
			prev.Success != nil && !*prev.Success &&
			delta >= 0 && delta <= 3
	case pbp.EventSteal:
		return prev.EventType == pbp.EventTurnover &&
			prev.TeamExternalID != event.TeamExternalID &&
			delta >= 0 && delta <= 2
	case pbp.EventBlock:
		return prev.EventType == pbp.EventShot &&
			prev.Success != nil && !*prev.Success &&
			delta >= -1 && delta <= 1
	case pbp.EventFreeThrow:
		return prev.EventType == pbp.EventFoul &&
			delta >= 0 && delta <= 5
	default:
		return false
	}
}
