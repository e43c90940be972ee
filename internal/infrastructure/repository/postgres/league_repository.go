package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/league"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByCode(ctx context.Context, code string) (*league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("code", code)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select league by code: %w", err)
	}

	return &league.League{
		ID:      row.ID,
		Code:    row.Code,
		Name:    row.Name,
		Country: row.Country,
	}, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, item league.League) error {
	model := leagueInsertModel{
		ID:      item.ID,
		Code:    item.Code,
		Name:    item.Name,
		Country: item.Country,
	}
	query, args, err := qb.InsertModel("leagues", model, `ON CONFLICT (code)
DO UPDATE SET
    name = EXCLUDED.name,
    country = EXCLUDED.country,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert league: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetSeason(ctx context.Context, leagueID, name string) (*league.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("name", name),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season query: %w", err)
	}

	var row seasonTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select season: %w", err)
	}

	out := seasonFromRow(row)
	return &out, nil
}

func (r *LeagueRepository) UpsertSeason(ctx context.Context, item league.Season) error {
	model := seasonInsertModel{
		ID:        item.ID,
		LeagueID:  item.LeagueID,
		Name:      item.Name,
		StartDate: item.StartDate,
		EndDate:   item.EndDate,
		IsCurrent: item.IsCurrent,
	}
	query, args, err := qb.InsertModel("seasons", model, `ON CONFLICT (league_id, name)
DO UPDATE SET
    start_date = EXCLUDED.start_date,
    end_date = EXCLUDED.end_date,
    is_current = EXCLUDED.is_current,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert season: %w", err)
	}
	return nil
}

func (r *LeagueRepository) ListSeasons(ctx context.Context, leagueID string) ([]league.Season, error) {
	query, args, err := qb.Select("*").From("seasons").
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("start_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list seasons query: %w", err)
	}

	var rows []seasonTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	out := make([]league.Season, 0, len(rows))
	for _, row := range rows {
		out = append(out, seasonFromRow(row))
	}
	return out, nil
}

func seasonFromRow(row seasonTableModel) league.Season {
	return league.Season{
		ID:        row.ID,
		LeagueID:  row.LeagueID,
		Name:      row.Name,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		IsCurrent: row.IsCurrent,
	}
}
