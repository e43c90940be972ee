package postgres

import "database/sql"

type pbpTableModel struct {
	GameID              string          `db:"game_id"`
	EventNumber         int             `db:"event_number"`
	Period              int             `db:"period"`
	Clock               string          `db:"clock"`
	EventType           string          `db:"event_type"`
	EventSubtype        string          `db:"event_subtype"`
	TeamID              sql.NullString  `db:"team_id"`
	PlayerID            sql.NullString  `db:"player_id"`
	Success             sql.NullBool    `db:"success"`
	CoordX              sql.NullFloat64 `db:"coord_x"`
	CoordY              sql.NullFloat64 `db:"coord_y"`
	RelatedEventNumbers []byte          `db:"related_event_numbers"`
}
