package usecase

import (
	"testing"

	"github.com/courtsync/courtsync/internal/domain/pbp"
)

func boolPtr(v bool) *bool { return &v }

func linkEvent(number, period int, clock, eventType, teamID string, success *bool) RawPBPEvent {
	return RawPBPEvent{
		EventNumber:    number,
		Period:         period,
		Clock:          clock,
		EventType:      eventType,
		TeamExternalID: teamID,
		Success:        success,
	}
}

func TestInferPBPLinks(t *testing.T) {
	t.Parallel()

	events := []RawPBPEvent{
		linkEvent(1, 1, "08:10", pbp.EventShot, "A", boolPtr(true)),
		linkEvent(2, 1, "08:10", pbp.EventAssist, "A", nil),
		linkEvent(3, 1, "07:30", pbp.EventShot, "B", boolPtr(false)),
		linkEvent(4, 1, "07:28", pbp.EventRebound, "A", nil),
		linkEvent(5, 1, "05:00", pbp.EventTurnover, "A", nil),
		linkEvent(6, 1, "04:59", pbp.EventSteal, "B", nil),
	}
	InferPBPLinks(events)

	wants := map[int][]int{
		1: nil,
		2: {1},
		3: nil,
		4: {3},
		5: nil,
		6: {5},
	}
	for _, ev := range events {
		want := wants[ev.EventNumber]
		if len(want) == 0 {
			if ev.RelatedEventNumbers != nil {
				t.Errorf("event %d: unexpected links %v", ev.EventNumber, ev.RelatedEventNumbers)
			}
			continue
		}
		if len(ev.RelatedEventNumbers) != 1 || ev.RelatedEventNumbers[0] != want[0] {
			t.Errorf("event %d: links = %v, want %v", ev.EventNumber, ev.RelatedEventNumbers, want)
		}
	}
}

func TestInferPBPLinksBlockEitherDirection(t *testing.T) {
	t.Parallel()

	// A block can be recorded one second before or after the shot it stops.
	events := []RawPBPEvent{
		linkEvent(1, 1, "06:00", pbp.EventShot, "A", boolPtr(false)),
		linkEvent(2, 1, "06:01", pbp.EventBlock, "B", nil),
	}
	InferPBPLinks(events)
	if len(events[1].RelatedEventNumbers) != 1 || events[1].RelatedEventNumbers[0] != 1 {
		t.Fatalf("block links = %v, want [1]", events[1].RelatedEventNumbers)
	}
}

func TestInferPBPLinksStopsAtPeriodBoundary(t *testing.T) {
	t.Parallel()

	events := []RawPBPEvent{
		linkEvent(1, 1, "00:02", pbp.EventShot, "A", boolPtr(true)),
		linkEvent(2, 2, "10:00", pbp.EventAssist, "A", nil),
	}
	InferPBPLinks(events)
	if events[1].RelatedEventNumbers != nil {
		t.Fatalf("cross-period link = %v, want nil", events[1].RelatedEventNumbers)
	}
}

func TestInferPBPLinksRespectsWindow(t *testing.T) {
	t.Parallel()

	events := []RawPBPEvent{
		linkEvent(1, 1, "09:00", pbp.EventFoul, "A", nil),
	}
	for i := 2; i <= 11; i++ {
		events = append(events, linkEvent(i, 1, "08:59", pbp.EventTimeout, "A", nil))
	}
	events = append(events, linkEvent(12, 1, "08:58", pbp.EventFreeThrow, "B", nil))

	inferPBPLinks(events, 10)
	last := events[len(events)-1]
	if last.RelatedEventNumbers != nil {
		t.Fatalf("free throw beyond window linked to %v", last.RelatedEventNumbers)
	}

	inferPBPLinks(events, 20)
	last = events[len(events)-1]
	if len(last.RelatedEventNumbers) != 1 || last.RelatedEventNumbers[0] != 1 {
		t.Fatalf("free throw within widened window links = %v, want [1]", last.RelatedEventNumbers)
	}
}

func TestInferPBPLinksSkipsBadClocks(t *testing.T) {
	t.Parallel()

	events := []RawPBPEvent{
		linkEvent(1, 1, "", pbp.EventShot, "A", boolPtr(true)),
		linkEvent(2, 1, "08:00", pbp.EventAssist, "A", nil),
	}
	InferPBPLinks(events)
	if events[1].RelatedEventNumbers != nil {
		t.Fatalf("assist linked through unparseable clock: %v", events[1].RelatedEventNumbers)
	}
}
