package postgres

import "time"

type teamTableModel struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	ShortName   string    `db:"short_name"`
	City        string    `db:"city"`
	Country     string    `db:"country"`
	ExternalIDs []byte    `db:"external_ids"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	ShortName   string `db:"short_name"`
	City        string `db:"city"`
	Country     string `db:"country"`
	ExternalIDs []byte `db:"external_ids"`
}
