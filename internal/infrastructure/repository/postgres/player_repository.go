package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/player"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (*player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *PlayerRepository) GetByExternalID(ctx context.Context, source, externalID string) (*player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Expr("external_ids ->> ? = ?", source, externalID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player by external id query: %w", err)
	}
	return r.getOne(ctx, query, args)
}

func (r *PlayerRepository) getOne(ctx context.Context, query string, args []any) (*player.Player, error) {
	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select player: %w", err)
	}
	out, err := playerFromRow(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *PlayerRepository) ListByTeamSeason(ctx context.Context, teamID, seasonID string) ([]player.Player, error) {
	query, args, err := qb.Select("p.*").From("players p").
		Where(qb.Expr(
			"p.id IN (SELECT player_id FROM player_team_histories WHERE team_id = ? AND season_id = ?)",
			teamID, seasonID,
		)).
		OrderBy("p.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list team season players query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PlayerRepository) ListByBirthDate(ctx context.Context, birthDate time.Time) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Expr("birth_date = ?", birthDate)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players by birth date query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *PlayerRepository) list(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		item, err := playerFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) error {
	model, err := playerToInsertModel(item)
	if err != nil {
		return err
	}
	query, args, err := qb.InsertModel("players", model, "")
	if err != nil {
		return fmt.Errorf("build insert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	externalIDs, err := marshalExternalIDs(item.ExternalIDs)
	if err != nil {
		return err
	}
	query, args, err := qb.Update("players").
		Set("first_name", item.FirstName).
		Set("last_name", item.LastName).
		Set("birth_date", timePtrToNullTime(item.BirthDate)).
		Set("height_cm", intPtrToNullInt64(item.HeightCM)).
		Set("position", item.Position).
		Set("nationality", item.Nationality).
		Set("external_ids", externalIDs).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	return nil
}

func (r *PlayerRepository) UpsertHistory(ctx context.Context, item player.PlayerTeamHistory) error {
	model := playerHistoryInsertModel{
		PlayerID:     item.PlayerID,
		TeamID:       item.TeamID,
		SeasonID:     item.SeasonID,
		JerseyNumber: intPtrToNullInt64(item.JerseyNumber),
		Position:     item.Position,
	}
	query, args, err := qb.InsertModel("player_team_histories", model, `ON CONFLICT (player_id, team_id, season_id)
DO UPDATE SET
    jersey_number = COALESCE(EXCLUDED.jersey_number, player_team_histories.jersey_number),
    position = CASE WHEN EXCLUDED.position <> '' THEN EXCLUDED.position ELSE player_team_histories.position END,
    updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert player history query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert player history: %w", err)
	}
	return nil
}

func (r *PlayerRepository) ListHistories(ctx context.Context, teamID, seasonID string) ([]player.PlayerTeamHistory, error) {
	query, args, err := qb.Select("*").From("player_team_histories").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("season_id", seasonID),
		).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player histories query: %w", err)
	}

	var rows []playerHistoryTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player histories: %w", err)
	}

	out := make([]player.PlayerTeamHistory, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.PlayerTeamHistory{
			PlayerID:     row.PlayerID,
			TeamID:       row.TeamID,
			SeasonID:     row.SeasonID,
			JerseyNumber: nullInt64ToIntPtr(row.JerseyNumber),
			Position:     row.Position,
		})
	}
	return out, nil
}

func playerToInsertModel(item player.Player) (playerInsertModel, error) {
	externalIDs, err := marshalExternalIDs(item.ExternalIDs)
	if err != nil {
		return playerInsertModel{}, err
	}
	return playerInsertModel{
		ID:          item.ID,
		FirstName:   item.FirstName,
		LastName:    item.LastName,
		BirthDate:   timePtrToNullTime(item.BirthDate),
		HeightCM:    intPtrToNullInt64(item.HeightCM),
		Position:    item.Position,
		Nationality: item.Nationality,
		ExternalIDs: externalIDs,
	}, nil
}

func playerFromRow(row playerTableModel) (player.Player, error) {
	externalIDs, err := unmarshalExternalIDs(row.ExternalIDs)
	if err != nil {
		return player.Player{}, fmt.Errorf("player %s: %w", row.ID, err)
	}
	return player.Player{
		ID:          row.ID,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		BirthDate:   nullTimeToTimePtr(row.BirthDate),
		HeightCM:    nullInt64ToIntPtr(row.HeightCM),
		Position:    row.Position,
		Nationality: row.Nationality,
		ExternalIDs: externalIDs,
	}, nil
}
