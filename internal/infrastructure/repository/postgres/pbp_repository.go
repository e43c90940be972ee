package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/pbp"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type PBPRepository struct {
	db *sqlx.DB
}

func NewPBPRepository(db *sqlx.DB) *PBPRepository {
	return &PBPRepository{db: db}
}

func (r *PBPRepository) ListByGame(ctx context.Context, gameID string) ([]pbp.Event, error) {
	query, args, err := qb.Select("*").From("play_by_play_events").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("event_number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list game events query: %w", err)
	}

	var rows []pbpTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list game events: %w", err)
	}

	out := make([]pbp.Event, 0, len(rows))
	for _, row := range rows {
		related, err := unmarshalIntSlice(row.RelatedEventNumbers)
		if err != nil {
			return nil, fmt.Errorf("game %s event %d: %w", row.GameID, row.EventNumber, err)
		}
		out = append(out, pbp.Event{
			GameID:              row.GameID,
			EventNumber:         row.EventNumber,
			Period:              row.Period,
			Clock:               row.Clock,
			EventType:           row.EventType,
			EventSubtype:        row.EventSubtype,
			TeamID:              nullStringToStrPtr(row.TeamID),
			PlayerID:            nullStringToStrPtr(row.PlayerID),
			Success:             nullBoolToBoolPtr(row.Success),
			CoordX:              nullFloat64ToFloatPtr(row.CoordX),
			CoordY:              nullFloat64ToFloatPtr(row.CoordY),
			RelatedEventNumbers: related,
		})
	}
	return out, nil
}

// ReplaceForGame swaps the game's full event log in one transaction,
// preserving event order.
func (r *PBPRepository) ReplaceForGame(ctx context.Context, gameID string, events []pbp.Event) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace game events: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.DeleteFrom("play_by_play_events").
		Where(qb.Eq("game_id", gameID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear game events query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear game events: %w", err)
	}

	for _, item := range events {
		related, err := marshalIntSlice(item.RelatedEventNumbers)
		if err != nil {
			return fmt.Errorf("game %s event %d: %w", gameID, item.EventNumber, err)
		}
		model := pbpTableModel{
			GameID:              gameID,
			EventNumber:         item.EventNumber,
			Period:              item.Period,
			Clock:               item.Clock,
			EventType:           item.EventType,
			EventSubtype:        item.EventSubtype,
			TeamID:              strPtrToNullString(item.TeamID),
			PlayerID:            strPtrToNullString(item.PlayerID),
			Success:             boolPtrToNullBool(item.Success),
			CoordX:              floatPtrToNullFloat64(item.CoordX),
			CoordY:              floatPtrToNullFloat64(item.CoordY),
			RelatedEventNumbers: related,
		}
		query, args, err := qb.InsertModel("play_by_play_events", model, "")
		if err != nil {
			return fmt.Errorf("build insert game event query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert game event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace game events: %w", err)
	}
	return nil
}
