package rawcache

import (
	"fmt"
	"time"
)

// Entry is one cached provider payload, keyed by (source, resource type,
// resource id). RawData holds the canonical bytes the hash was computed
// over.
type Entry struct {
	ID           string
	Source       string
	ResourceType string
	ResourceID   string
	RawData      []byte
	ContentHash  string
	FetchedAt    time.Time
	HTTPStatus   *int
}

func (e Entry) Validate() error {
	if e.Source == "" {
		return fmt.Errorf("cache entry source is required")
	}
	if e.ResourceType == "" {
		return fmt.Errorf("cache entry resource type is required")
	}
	if e.ResourceID == "" {
		return fmt.Errorf("cache entry resource id is required")
	}
	if e.ContentHash == "" {
		return fmt.Errorf("cache entry content hash is required")
	}

	return nil
}

// CacheResult is what clients hand to mappers. FromCache means no network
// call happened; Changed means a fresh fetch carried different bytes than
// the stored entry.
type CacheResult struct {
	Data      []byte
	Changed   bool
	FetchedAt time.Time
	CacheID   string
	FromCache bool
}
