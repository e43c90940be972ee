package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID          string        `db:"id"`
	SeasonID    string        `db:"season_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	GameDate    time.Time     `db:"game_date"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	ExternalIDs []byte        `db:"external_ids"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type gameInsertModel struct {
	ID          string        `db:"id"`
	SeasonID    string        `db:"season_id"`
	HomeTeamID  string        `db:"home_team_id"`
	AwayTeamID  string        `db:"away_team_id"`
	GameDate    time.Time     `db:"game_date"`
	Status      string        `db:"status"`
	HomeScore   sql.NullInt64 `db:"home_score"`
	AwayScore   sql.NullInt64 `db:"away_score"`
	ExternalIDs []byte        `db:"external_ids"`
}
