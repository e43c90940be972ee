package usecase

import "github.com/courtsync/courtsync/internal/domain/synclog"

const (
	ProgressStart    = "start"
	ProgressProgress = "progress"
	ProgressSynced   = "synced"
	ProgressError    = "error"
	ProgressComplete = "complete"
)

// ProgressEvent is one tagged record on a season sync's progress stream.
// The stream is finite: zero or more start/progress/synced/error events
// followed by exactly one complete carrying the closed sync log.
type ProgressEvent struct {
	Type           string           `json:"type"`
	Phase          string           `json:"phase,omitempty"`
	Total          int              `json:"total,omitempty"`
	Current        int              `json:"current,omitempty"`
	Skipped        int              `json:"skipped,omitempty"`
	GameExternalID string           `json:"game_id,omitempty"`
	Status         string           `json:"status,omitempty"`
	Error          string           `json:"error,omitempty"`
	Log            *synclog.SyncLog `json:"sync_log,omitempty"`
}
