package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/game"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (*game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *GameRepository) GetByExternalID(ctx context.Context, source, externalID string) (*game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Expr("external_ids ->> ? = ?", source, externalID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select game by external id query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *GameRepository) getOne(ctx context.Context, query string, args []any) (*game.Game, error) {
	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select game: %w", err)
	}
	out, err := gameFromRow(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, seasonID string) ([]game.Game, error) {
	query, args, err := qb.Select("*").From("games").
		Where(qb.Eq("season_id", seasonID)).
		OrderBy("game_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list season games query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list season games: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		item, err := gameFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *GameRepository) Upsert(ctx context.Context, item game.Game) error {
	externalIDs, err := marshalExternalIDs(item.ExternalIDs)
	if err != nil {
		return err
	}
	model := gameInsertModel{
		ID:          item.ID,
		SeasonID:    item.SeasonID,
		HomeTeamID:  item.HomeTeamID,
		AwayTeamID:  item.AwayTeamID,
		GameDate:    item.GameDate,
		Status:      item.Status,
		HomeScore:   intPtrToNullInt64(item.HomeScore),
		AwayScore:   intPtrToNullInt64(item.AwayScore),
		ExternalIDs: externalIDs,
	}
	query, args, err := qb.InsertModel("games", model, `ON CONFLICT (id)
DO UPDATE SET
    season_id = EXCLUDED.season_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    game_date = EXCLUDED.game_date,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    external_ids = EXCLUDED.external_ids,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert game: %w", err)
	}
	return nil
}

func gameFromRow(row gameTableModel) (game.Game, error) {
	externalIDs, err := unmarshalExternalIDs(row.ExternalIDs)
	if err != nil {
		return game.Game{}, fmt.Errorf("game %s: %w", row.ID, err)
	}
	return game.Game{
		ID:          row.ID,
		SeasonID:    row.SeasonID,
		HomeTeamID:  row.HomeTeamID,
		AwayTeamID:  row.AwayTeamID,
		GameDate:    row.GameDate,
		Status:      row.Status,
		HomeScore:   nullInt64ToIntPtr(row.HomeScore),
		AwayScore:   nullInt64ToIntPtr(row.AwayScore),
		ExternalIDs: externalIDs,
	}, nil
}
