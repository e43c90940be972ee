package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtsync/courtsync/internal/domain/rawcache"
	qb "github.com/courtsync/courtsync/internal/platform/querybuilder"
)

type RawCacheRepository struct {
	db *sqlx.DB
}

func NewRawCacheRepository(db *sqlx.DB) *RawCacheRepository {
	return &RawCacheRepository{db: db}
}

func (r *RawCacheRepository) Get(ctx context.Context, source, resourceType, resourceID string) (*rawcache.Entry, error) {
	query, args, err := qb.Select("*").From("sync_cache").
		Where(
			qb.Eq("source", source),
			qb.Eq("resource_type", resourceType),
			qb.Eq("resource_id", resourceID),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select cache entry query: %w", err)
	}

	var row cacheTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("select cache entry: %w", err)
	}
	out := entryFromRow(row)
	return &out, nil
}

func (r *RawCacheRepository) Insert(ctx context.Context, item rawcache.Entry) error {
	model := cacheTableModel{
		ID:           item.ID,
		Source:       item.Source,
		ResourceType: item.ResourceType,
		ResourceID:   item.ResourceID,
		RawData:      item.RawData,
		ContentHash:  item.ContentHash,
		FetchedAt:    item.FetchedAt,
		HTTPStatus:   intPtrToNullInt64(item.HTTPStatus),
	}
	query, args, err := qb.InsertModel("sync_cache", model, "")
	if err != nil {
		return fmt.Errorf("build insert cache entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}
	return nil
}

func (r *RawCacheRepository) Replace(ctx context.Context, item rawcache.Entry) error {
	query, args, err := qb.Update("sync_cache").
		Set("raw_data", item.RawData).
		Set("content_hash", item.ContentHash).
		Set("fetched_at", item.FetchedAt).
		Set("http_status", intPtrToNullInt64(item.HTTPStatus)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build replace cache entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace cache entry: %w", err)
	}
	return nil
}

func (r *RawCacheRepository) TouchFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error {
	query, args, err := qb.Update("sync_cache").
		Set("fetched_at", fetchedAt).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build touch cache entry query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("touch cache entry: %w", err)
	}
	return nil
}

func entryFromRow(row cacheTableModel) rawcache.Entry {
	return rawcache.Entry{
		ID:           row.ID,
		Source:       row.Source,
		ResourceType: row.ResourceType,
		ResourceID:   row.ResourceID,
		RawData:      row.RawData,
		ContentHash:  row.ContentHash,
		FetchedAt:    row.FetchedAt,
		HTTPStatus:   nullInt64ToIntPtr(row.HTTPStatus),
	}
}
