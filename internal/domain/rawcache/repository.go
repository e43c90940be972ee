package rawcache

import (
	"context"
	"time"
)

// Repository exposes raw payload persistence. Entries are never deleted
// during a sync; writes replace data and hash in place.
type Repository interface {
	Get(ctx context.Context, source, resourceType, resourceID string) (*Entry, error)
	Insert(ctx context.Context, item Entry) error
	Replace(ctx context.Context, item Entry) error
	TouchFetchedAt(ctx context.Context, id string, fetchedAt time.Time) error
}
