package postgres

import (
	"database/sql"
	"time"
)

type playerTableModel struct {
	ID          string        `db:"id"`
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	BirthDate   sql.NullTime  `db:"birth_date"`
	HeightCM    sql.NullInt64 `db:"height_cm"`
	Position    string        `db:"position"`
	Nationality string        `db:"nationality"`
	ExternalIDs []byte        `db:"external_ids"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type playerInsertModel struct {
	ID          string        `db:"id"`
	FirstName   string        `db:"first_name"`
	LastName    string        `db:"last_name"`
	BirthDate   sql.NullTime  `db:"birth_date"`
	HeightCM    sql.NullInt64 `db:"height_cm"`
	Position    string        `db:"position"`
	Nationality string        `db:"nationality"`
	ExternalIDs []byte        `db:"external_ids"`
}

type playerHistoryTableModel struct {
	PlayerID     string        `db:"player_id"`
	TeamID       string        `db:"team_id"`
	SeasonID     string        `db:"season_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	Position     string        `db:"position"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type playerHistoryInsertModel struct {
	PlayerID     string        `db:"player_id"`
	TeamID       string        `db:"team_id"`
	SeasonID     string        `db:"season_id"`
	JerseyNumber sql.NullInt64 `db:"jersey_number"`
	Position     string        `db:"position"`
}
