package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/team"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (*team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *TeamRepository) GetByExternalID(ctx context.Context, source, externalID string) (*team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Expr("external_ids ->> ? = ?", source, externalID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select team by external id query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *TeamRepository) getOne(ctx context.Context, query string, args []any) (*team.Team, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select team: %w", err)
	}
	out, err := teamFromRow(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	query, args, err := qb.Select("t.*").From("teams t").
		Where(qb.Expr("t.id IN (SELECT team_id FROM team_seasons WHERE season_id = ?)", seasonID)).
		OrderBy("t.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		item, err := teamFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) error {
	externalIDs, err := marshalExternalIDs(item.ExternalIDs)
	if err != nil {
		return err
	}
	model := teamInsertModel{
		ID:          item.ID,
		Name:        item.Name,
		ShortName:   item.ShortName,
		City:        item.City,
		Country:     item.Country,
		ExternalIDs: externalIDs,
	}
	query, args, err := qb.InsertModel("teams", model, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	externalIDs, err := marshalExternalIDs(item.ExternalIDs)
	if err != nil {
		return err
	}
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("short_name", item.ShortName).
		Set("city", item.City).
		Set("country", item.Country).
		Set("external_ids", externalIDs).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team: %w", err)
	}
	return nil
}

func (r *TeamRepository) EnsureTeamSeason(ctx context.Context, item team.TeamSeason) error {
	query, args, err := qb.InsertInto("team_seasons").
		Columns("team_id", "season_id").
		Values(item.TeamID, item.SeasonID).
		Suffix("ON CONFLICT (team_id, season_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build insert team season query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert team season: %w", err)
	}
	return nil
}

func teamFromRow(row teamTableModel) (team.Team, error) {
	externalIDs, err := unmarshalExternalIDs(row.ExternalIDs)
	if err != nil {
		return team.Team{}, fmt.Errorf("team %s: %w", row.ID, err)
	}
	return team.Team{
		ID:          row.ID,
		Name:        row.Name,
		ShortName:   row.ShortName,
		City:        row.City,
		Country:     row.Country,
		ExternalIDs: externalIDs,
	}, nil
}
