package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/courtsync/courtsync/internal/domain/rawcache"
	"github.com/courtsync/courtsync/internal/platform/id"
	"github.com/courtsync/courtsync/internal/platform/logging"
)

// canonicalJSON renders JSON with sorted keys so equal documents hash
// equally regardless of upstream key order.
var canonicalJSON = sonic.Config{SortMapKeys: true}.Froze()

// CanonicalHash returns the SHA-256 hex of the payload's canonical form.
// JSON payloads are re-rendered with sorted keys; non-JSON payloads (XML,
// HTML) hash as raw bytes.
func CanonicalHash(data []byte) string {
	var decoded any
	if err := sonic.Unmarshal(data, &decoded); err == nil {
		if canonical, err := canonicalJSON.Marshal(decoded); err == nil {
			sum := sha256.Sum256(canonical)
			return hex.EncodeToString(sum[:])
		}
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FetchCache is the raw payload store clients write through. It detects
// content change via the canonical hash so unchanged refetches only
// refresh fetched_at.
type FetchCache struct {
	repo   rawcache.Repository
	ids    id.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewFetchCache(repo rawcache.Repository, ids id.Generator, logger *logging.Logger) *FetchCache {
	if logger == nil {
		logger = logging.Default()
	}
	return &FetchCache{
		repo:   repo,
		ids:    ids,
		logger: logger.Named("fetch_cache"),
		now:    time.Now,
	}
}

// Read returns the cached payload or nil when absent.
func (c *FetchCache) Read(ctx context.Context, source, resourceType, resourceID string) (*rawcache.CacheResult, error) {
	entry, err := c.repo.Get(ctx, source, resourceType, resourceID)
	if err != nil {
		return nil, fmt.Errorf("read cache %s/%s/%s: %w", source, resourceType, resourceID, err)
	}
	if entry == nil {
		return nil, nil
	}

	return &rawcache.CacheResult{
		Data:      entry.RawData,
		Changed:   false,
		FetchedAt: entry.FetchedAt,
		CacheID:   entry.ID,
		FromCache: true,
	}, nil
}

// Write stores a freshly fetched payload. When the canonical hash matches
// the stored entry only fetched_at is refreshed and Changed is false.
func (c *FetchCache) Write(ctx context.Context, source, resourceType, resourceID string, data []byte, httpStatus *int) (rawcache.CacheResult, error) {
	hash := CanonicalHash(data)
	fetchedAt := c.now().UTC()

	existing, err := c.repo.Get(ctx, source, resourceType, resourceID)
	if err != nil {
		return rawcache.CacheResult{}, fmt.Errorf("lookup cache %s/%s/%s: %w", source, resourceType, resourceID, err)
	}

	if existing != nil && existing.ContentHash == hash {
		if err := c.repo.TouchFetchedAt(ctx, existing.ID, fetchedAt); err != nil {
			return rawcache.CacheResult{}, fmt.Errorf("touch cache %s: %w", existing.ID, err)
		}
		return rawcache.CacheResult{
			Data:      existing.RawData,
			Changed:   false,
			FetchedAt: fetchedAt,
			CacheID:   existing.ID,
		}, nil
	}

	entry := rawcache.Entry{
		Source:       source,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RawData:      data,
		ContentHash:  hash,
		FetchedAt:    fetchedAt,
		HTTPStatus:   httpStatus,
	}
	if existing != nil {
		entry.ID = existing.ID
		if err := c.repo.Replace(ctx, entry); err != nil {
			return rawcache.CacheResult{}, fmt.Errorf("replace cache %s: %w", entry.ID, err)
		}
		c.logger.DebugContext(ctx, "cache content changed",
			"source", source, "resource_type", resourceType, "resource_id", resourceID)
	} else {
		entry.ID = c.ids.NewID()
		if err := c.repo.Insert(ctx, entry); err != nil {
			return rawcache.CacheResult{}, fmt.Errorf("insert cache %s/%s/%s: %w", source, resourceType, resourceID, err)
		}
	}

	return rawcache.CacheResult{
		Data:      data,
		Changed:   true,
		FetchedAt: fetchedAt,
		CacheID:   entry.ID,
	}, nil
}
