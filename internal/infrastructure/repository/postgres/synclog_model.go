package postgres

import (
	"database/sql"
	"time"
)

type syncLogTableModel struct {
	ID               string         `db:"id"`
	Source           string         `db:"source"`
	EntityType       string         `db:"entity_type"`
	SeasonID         sql.NullString `db:"season_id"`
	GameID           sql.NullString `db:"game_id"`
	Status           string         `db:"status"`
	StartedAt        time.Time      `db:"started_at"`
	CompletedAt      sql.NullTime   `db:"completed_at"`
	RecordsProcessed int            `db:"records_processed"`
	RecordsCreated   int            `db:"records_created"`
	RecordsUpdated   int            `db:"records_updated"`
	RecordsSkipped   int            `db:"records_skipped"`
	ErrorMessage     string         `db:"error_message"`
	ErrorDetails     string         `db:"error_details"`
}

type trackedGameTableModel struct {
	Source         string    `db:"source"`
	GameExternalID string    `db:"game_external_id"`
	GameID         string    `db:"game_id"`
	SyncedAt       time.Time `db:"synced_at"`
}
