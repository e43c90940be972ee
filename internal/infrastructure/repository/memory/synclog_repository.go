package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/courtsync/courtsync/internal/domain/synclog"
)

type SyncLogRepository struct {
	mu   sync.RWMutex
	logs map[string]synclog.SyncLog
}

func NewSyncLogRepository() *SyncLogRepository {
	return &SyncLogRepository{logs: make(map[string]synclog.SyncLog)}
}

func (r *SyncLogRepository) Create(_ context.Context, item synclog.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logs[item.ID] = item
	return nil
}

func (r *SyncLogRepository) Update(_ context.Context, item synclog.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[item.ID]; !ok {
		return fmt.Errorf("sync log %s does not exist", item.ID)
	}
	r.logs[item.ID] = item
	return nil
}

func (r *SyncLogRepository) GetRunning(_ context.Context, source, entityType string, seasonID *string) (*synclog.SyncLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.logs {
		if item.Source != source || item.EntityType != entityType {
			continue
		}
		if synclog.NormalizeStatus(item.Status) != synclog.StatusRunning {
			continue
		}
		if seasonID != nil && (item.SeasonID == nil || *item.SeasonID != *seasonID) {
			continue
		}
		out := item
		return &out, nil
	}
	return nil, nil
}

func (r *SyncLogRepository) List(_ context.Context, source string, limit int) ([]synclog.SyncLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]synclog.SyncLog, 0, len(r.logs))
	for _, item := range r.logs {
		if source != "" && item.Source != source {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
