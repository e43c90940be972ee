package postgres

import "database/sql"

type statsTableModel struct {
	ID            string        `db:"id"`
	GameID        string        `db:"game_id"`
	PlayerID      string        `db:"player_id"`
	TeamID        string        `db:"team_id"`
	SecondsPlayed int           `db:"seconds_played"`
	Points        int           `db:"points"`
	TwoPM         int           `db:"two_pm"`
	TwoPA         int           `db:"two_pa"`
	ThreePM       int           `db:"three_pm"`
	ThreePA       int           `db:"three_pa"`
	FTM           int           `db:"ft_m"`
	FTA           int           `db:"ft_a"`
	OffRebounds   int           `db:"off_rebounds"`
	DefRebounds   int           `db:"def_rebounds"`
	TotalRebounds int           `db:"total_rebounds"`
	Assists       int           `db:"assists"`
	Steals        int           `db:"steals"`
	Blocks        int           `db:"blocks"`
	Turnovers     int           `db:"turnovers"`
	PersonalFouls int           `db:"personal_fouls"`
	PlusMinus     int           `db:"plus_minus"`
	Efficiency    int           `db:"efficiency"`
	IsStarter     bool          `db:"is_starter"`
	JerseyNumber  sql.NullInt64 `db:"jersey_number"`
}
