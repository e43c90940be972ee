package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/synclog"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type TrackerRepository struct {
	db *sqlx.DB
}

func NewTrackerRepository(db *sqlx.DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

func (r *TrackerRepository) FilterUnsynced(ctx context.Context, source string, externalIDs []string) ([]string, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(externalIDs))
	for _, id := range externalIDs {
		values = append(values, id)
	}
	query, args, err := qb.Select("game_external_id").From("sync_tracker").
		Where(
			qb.Eq("source", source),
			qb.In("game_external_id", values),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tracked games query: %w", err)
	}

	var tracked []string
	if err := r.db.SelectContext(ctx, &tracked, query, args...); err != nil {
		return nil, fmt.Errorf("select tracked games: %w", err)
	}

	seen := make(map[string]struct{}, len(tracked))
	for _, id := range tracked {
		seen[id] = struct{}{}
	}

	out := make([]string, 0, len(externalIDs))
	for _, id := range externalIDs {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *TrackerRepository) MarkSynced(ctx context.Context, item synclog.TrackedGame) error {
	model := trackedGameTableModel{
		Source:         item.Source,
		GameExternalID: item.GameExternalID,
		GameID:         item.GameID,
		SyncedAt:       item.SyncedAt,
	}
	query, args, err := qb.InsertModel("sync_tracker", model,
		"ON CONFLICT (source, game_external_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert tracked game query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert tracked game: %w", err)
	}
	return nil
}

func (r *TrackerRepository) GameIDByExternalID(ctx context.Context, source, externalID string) (string, error) {
	query, args, err := qb.Select("game_id").From("sync_tracker").
		Where(
			qb.Eq("source", source),
			qb.Eq("game_external_id", externalID),
		).
		ToSQL()
	if err != nil {
		return "", fmt.Errorf("build select tracked game query: %w", err)
	}

	var gameID string
	if err := r.db.GetContext(ctx, &gameID, query, args...); err != nil {
		if isNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("select tracked game: %w", err)
	}
	return gameID, nil
}
