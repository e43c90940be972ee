package memory

import (
	"context"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/synclog"
)

type TrackerRepository struct {
	mu      sync.RWMutex
	tracked map[string]synclog.TrackedGame
}

func NewTrackerRepository() *TrackerRepository {
	return &TrackerRepository{tracked: make(map[string]synclog.TrackedGame)}
}

func trackedKey(source, externalID string) string {
	return source + "|" + externalID
}

func (r *TrackerRepository) FilterUnsynced(_ context.Context, source string, externalIDs []string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(externalIDs))
	for _, externalID := range externalIDs {
		if _, ok := r.tracked[trackedKey(source, externalID)]; !ok {
			out = append(out, externalID)
		}
	}
	return out, nil
}

func (r *TrackerRepository) MarkSynced(_ context.Context, item synclog.TrackedGame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := trackedKey(item.Source, item.GameExternalID)
	if _, ok := r.tracked[key]; ok {
		return nil
	}
	r.tracked[key] = item
	return nil
}

func (r *TrackerRepository) GameIDByExternalID(_ context.Context, source, externalID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.tracked[trackedKey(source, externalID)]
	if !ok {
		return "", nil
	}
	return item.GameID, nil
}
