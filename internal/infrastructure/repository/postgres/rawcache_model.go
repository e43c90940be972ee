package postgres

import (
	"database/sql"
	"time"
)

type cacheTableModel struct {
	ID           string        `db:"id"`
	Source       string        `db:"source"`
	ResourceType string        `db:"resource_type"`
	ResourceID   string        `db:"resource_id"`
	RawData      []byte        `db:"raw_data"`
	ContentHash  string        `db:"content_hash"`
	FetchedAt    time.Time     `db:"fetched_at"`
	HTTPStatus   sql.NullInt64 `db:"http_status"`
}
