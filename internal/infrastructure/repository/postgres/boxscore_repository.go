package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/boxscore"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type BoxscoreRepository struct {
	db *sqlx.DB
}

func NewBoxscoreRepository(db *sqlx.DB) *BoxscoreRepository {
	return &BoxscoreRepository{db: db}
}

func (r *BoxscoreRepository) ListByGame(ctx context.Context, gameID string) ([]boxscore.PlayerGameStats, error) {
	query, args, err := qb.Select("*").From("player_game_stats").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("team_id", "player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game stats query: %w", err)
	}

	var rows []statsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game stats: %w", err)
	}

	out := make([]boxscore.PlayerGameStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, boxscore.PlayerGameStats{
			ID:            row.ID,
			GameID:        row.GameID,
			PlayerID:      row.PlayerID,
			TeamID:        row.TeamID,
			SecondsPlayed: row.SecondsPlayed,
			Points:        row.Points,
			TwoPM:         row.TwoPM,
			TwoPA:         row.TwoPA,
			ThreePM:       row.ThreePM,
			ThreePA:       row.ThreePA,
			FTM:           row.FTM,
			FTA:           row.FTA,
			OffRebounds:   row.OffRebounds,
			DefRebounds:   row.DefRebounds,
			TotalRebounds: row.TotalRebounds,
			Assists:       row.Assists,
			Steals:        row.Steals,
			Blocks:        row.Blocks,
			Turnovers:     row.Turnovers,
			PersonalFouls: row.PersonalFouls,
			PlusMinus:     row.PlusMinus,
			Efficiency:    row.Efficiency,
			IsStarter:     row.IsStarter,
			JerseyNumber:  nullInt64ToIntPtr(row.JerseyNumber),
		})
	}
	return out, nil
}

// ReplaceForGame swaps the game's full row set in one transaction.
func (r *BoxscoreRepository) ReplaceForGame(ctx context.Context, gameID string, rows []boxscore.PlayerGameStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("player_game_stats").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear game stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear game stats: %w", err)
	}

	for _, item := range rows {
		model := statsTableModel{
			ID:            item.ID,
			GameID:        gameID,
			PlayerID:      item.PlayerID,
			TeamID:        item.TeamID,
			SecondsPlayed: item.SecondsPlayed,
			Points:        item.Points,
			TwoPM:         item.TwoPM,
			TwoPA:         item.TwoPA,
			ThreePM:       item.ThreePM,
			ThreePA:       item.ThreePA,
			FTM:           item.FTM,
			FTA:           item.FTA,
			OffRebounds:   item.OffRebounds,
			DefRebounds:   item.DefRebounds,
			TotalRebounds: item.TotalRebounds,
			Assists:       item.Assists,
			Steals:        item.Steals,
			Blocks:        item.Blocks,
			Turnovers:     item.Turnovers,
			PersonalFouls: item.PersonalFouls,
			PlusMinus:     item.PlusMinus,
			Efficiency:    item.Efficiency,
			IsStarter:     item.IsStarter,
			JerseyNumber:  intPtrToNullInt64(item.JerseyNumber),
		}
		query, args, err := qb.InsertModel("player_game_stats", model, "")
		if err != nil {
			return fmt.Errorf("build insert game stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert game stats: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game stats: %w", err)
	}
	return nil
}
