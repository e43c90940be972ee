package memory

import (
	"context"
	"sync"
	"time"

	"github.com/courtsync/courtsync/internal/domain/rawcache"
)

type RawCacheRepository struct {
	mu       sync.RWMutex
	byTriple map[string]rawcache.Entry
	tripleOf map[string]string
}

func NewRawCacheRepository() *RawCacheRepository {
	return &RawCacheRepository{
		byTriple: make(map[string]rawcache.Entry),
		tripleOf: make(map[string]string),
	}
}

func tripleKey(source, resourceType, resourceID string) string {
	return source + "|" + resourceType + "|" + resourceID
}

func cloneEntry(item rawcache.Entry) rawcache.Entry {
	data := make([]byte, len(item.RawData))
	copy(data, item.RawData)
	item.RawData = data
	return item
}

func (r *RawCacheRepository) Get(_ context.Context, source, resourceType, resourceID string) (*rawcache.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byTriple[tripleKey(source, resourceType, resourceID)]
	if !ok {
		return nil, nil
	}
	out := cloneEntry(item)
	return &out, nil
}

func (r *RawCacheRepository) Insert(_ context.Context, item rawcache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tripleKey(item.Source, item.ResourceType, item.ResourceID)
	r.byTriple[key] = cloneEntry(item)
	r.tripleOf[item.ID] = key
	return nil
}

func (r *RawCacheRepository) Replace(_ context.Context, item rawcache.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := tripleKey(item.Source, item.ResourceType, item.ResourceID)
	r.byTriple[key] = cloneEntry(item)
	r.tripleOf[item.ID] = key
	return nil
}

func (r *RawCacheRepository) TouchFetchedAt(_ context.Context, id string, fetchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key, ok := r.tripleOf[id]
	if !ok {
		return nil
	}
	item := r.byTriple[key]
	item.FetchedAt = fetchedAt
	r.byTriple[key] = item
	return nil
}
