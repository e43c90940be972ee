package postgres

import "time"

type leagueTableModel struct {
	ID        string    `db:"id"`
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Country   string    `db:"country"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type leagueInsertModel struct {
	ID      string `db:"id"`
	Code    string `db:"code"`
	Name    string `db:"name"`
	Country string `db:"country"`
}

type seasonTableModel struct {
	ID        string    `db:"id"`
	LeagueID  string    `db:"league_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsCurrent bool      `db:"is_current"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seasonInsertModel struct {
	ID        string    `db:"id"`
	LeagueID  string    `db:"league_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	IsCurrent bool      `db:"is_current"`
}
