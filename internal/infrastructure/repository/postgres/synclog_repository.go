package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/synclog"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type SyncLogRepository struct {
	db *sqlx.DB
}

func NewSyncLogRepository(db *sqlx.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

func (r *SyncLogRepository) Create(ctx context.Context, item synclog.SyncLog) error {
	query, args, err := qb.InsertModel("sync_logs", syncLogToModel(item), "")
	if err != nil {
		return fmt.Errorf("build insert sync log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

func (r *SyncLogRepository) Update(ctx context.Context, item synclog.SyncLog) error {
	query, args, err := qb.Update("sync_logs").
		Set("status", item.Status).
		Set("completed_at", timePtrToNullTime(item.CompletedAt)).
		Set("records_processed", item.RecordsProcessed).
		Set("records_created", item.RecordsCreated).
		Set("records_updated", item.RecordsUpdated).
		Set("records_skipped", item.RecordsSkipped).
		Set("error_message", item.ErrorMessage).
		Set("error_details", item.ErrorDetails).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update sync log query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update sync log: %w", err)
	}
	return nil
}

func (r *SyncLogRepository) GetRunning(ctx context.Context, source, entityType string, seasonID *string) (*synclog.SyncLog, error) {
	conditions := []qb.Condition{
		qb.Eq("source", source),
		qb.Eq("entity_type", entityType),
		qb.Eq("status", synclog.StatusRunning),
	}
	if seasonID != nil {
		conditions = append(conditions, qb.Eq("season_id", *seasonID))
	}
	query, args, err := qb.Select("*").From("sync_logs").
		Where(conditions...).
		OrderBy("started_at DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select running sync log query: %w", err)
	}

	var row syncLogTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select running sync log: %w", err)
	}
	out := syncLogFromRow(row)
	return &out, nil
}

func (r *SyncLogRepository) List(ctx context.Context, source string, limit int) ([]synclog.SyncLog, error) {
	builder := qb.Select("*").From("sync_logs").
		OrderBy("started_at DESC")
	if source != "" {
		builder = builder.Where(qb.Eq("source", source))
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sync logs query: %w", err)
	}

	var rows []syncLogTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sync logs: %w", err)
	}

	out := make([]synclog.SyncLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, syncLogFromRow(row))
	}
	return out, nil
}

func syncLogToModel(item synclog.SyncLog) syncLogTableModel {
	return syncLogTableModel{
		ID:               item.ID,
		Source:           item.Source,
		EntityType:       item.EntityType,
		SeasonID:         strPtrToNullString(item.SeasonID),
		GameID:           strPtrToNullString(item.GameID),
		Status:           item.Status,
		StartedAt:        item.StartedAt,
		CompletedAt:      timePtrToNullTime(item.CompletedAt),
		RecordsProcessed: item.RecordsProcessed,
		RecordsCreated:   item.RecordsCreated,
		RecordsUpdated:   item.RecordsUpdated,
		RecordsSkipped:   item.RecordsSkipped,
		ErrorMessage:     item.ErrorMessage,
		ErrorDetails:     item.ErrorDetails,
	}
}

func syncLogFromRow(row syncLogTableModel) synclog.SyncLog {
	return synclog.SyncLog{
		ID:               row.ID,
		Source:           row.Source,
		EntityType:       row.EntityType,
		SeasonID:         nullStringToStrPtr(row.SeasonID),
		GameID:           nullStringToStrPtr(row.GameID),
		Status:           row.Status,
		StartedAt:        row.StartedAt,
		CompletedAt:      nullTimeToTimePtr(row.CompletedAt),
		RecordsProcessed: row.RecordsProcessed,
		RecordsCreated:   row.RecordsCreated,
		RecordsUpdated:   row.RecordsUpdated,
		RecordsSkipped:   row.RecordsSkipped,
		ErrorMessage:     row.ErrorMessage,
		ErrorDetails:     row.ErrorDetails,
	}
}
