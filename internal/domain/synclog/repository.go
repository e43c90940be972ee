package synclog

import "context"

// Repository exposes sync log persistence.
type Repository interface {
	Create(ctx context.Context, item SyncLog) error
	Update(ctx context.Context, item SyncLog) error
	GetRunning(ctx context.Context, source, entityType string, seasonID *string) (*SyncLog, error)
	List(ctx context.Context, source string, limit int) ([]SyncLog, error)
}

// TrackerRepository is the idempotence ledger for fully ingested games.
type TrackerRepository interface {
	// FilterUnsynced returns the subset of externalIDs with no tracker row,
	// preserving input order.
	FilterUnsynced(ctx context.Context, source string, externalIDs []string) ([]string, error)
	// MarkSynced inserts a row, ignoring duplicates.
	MarkSynced(ctx context.Context, item TrackedGame) error
	GameIDByExternalID(ctx context.Context, source, externalID string) (string, error)
}
