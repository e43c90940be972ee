package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/courtsync/courtsync/internal/infrastructure/repository/memory"
	"github.com/courtsync/courtsync/internal/platform/id"
)

func TestCanonicalHash(t *testing.T) {
	t.Parallel()

	// Equal JSON documents hash equally regardless of key order.
	a := CanonicalHash([]byte(`{"a":1,"b":{"x":true,"y":"z"}}`))
	b := CanonicalHash([]byte(`{"b":{"y":"z","x":true},"a":1}`))
	if a != b {
		t.Fatalf("reordered JSON hashes differ: %s vs %s", a, b)
	}

	c := CanonicalHash([]byte(`{"a":2,"b":{"x":true,"y":"z"}}`))
	if c == a {
		t.Fatal("different JSON documents hash equally")
	}

	// Non-JSON payloads hash as raw bytes.
	x := CanonicalHash([]byte("<xml>one</xml>"))
	y := CanonicalHash([]byte("<xml>two</xml>"))
	if x == y {
		t.Fatal("different raw payloads hash equally")
	}
	if x != CanonicalHash([]byte("<xml>one</xml>")) {
		t.Fatal("raw payload hash is not stable")
	}
}

func TestFetchCacheWrite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := memory.NewRawCacheRepository()
	cache := NewFetchCache(repo, &id.Static{IDs: []string{"c1"}}, nil)

	t1 := time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	t3 := t2.Add(time.Hour)
	cache.now = func() time.Time { return t1 }

	status := 200
	first, err := cache.Write(ctx, "winner", "games_all", "all", []byte(`{"a":1,"b":2}`), &status)
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if !first.Changed || first.CacheID != "c1" {
		t.Fatalf("first write: changed=%v cache_id=%s", first.Changed, first.CacheID)
	}

	// Same content with shuffled keys refreshes fetched_at only.
	cache.now = func() time.Time { return t2 }
	second, err := cache.Write(ctx, "winner", "games_all", "all", []byte(`{"b":2,"a":1}`), &status)
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if second.Changed {
		t.Fatal("unchanged content reported as changed")
	}
	if !second.FetchedAt.Equal(t2) {
		t.Fatalf("fetched_at not refreshed: %v", second.FetchedAt)
	}

	stored, err := repo.Get(ctx, "winner", "games_all", "all")
	if err != nil || stored == nil {
		t.Fatalf("get stored entry: %v %v", stored, err)
	}
	if !stored.FetchedAt.Equal(t2) {
		t.Fatalf("stored fetched_at = %v, want %v", stored.FetchedAt, t2)
	}
	if !bytes.Equal(stored.RawData, []byte(`{"a":1,"b":2}`)) {
		t.Fatalf("stored data rewritten on unchanged content: %s", stored.RawData)
	}

	// New content replaces in place under the same id.
	cache.now = func() time.Time { return t3 }
	third, err := cache.Write(ctx, "winner", "games_all", "all", []byte(`{"a":9}`), &status)
	if err != nil {
		t.Fatalf("third write: %v", err)
	}
	if !third.Changed || third.CacheID != "c1" {
		t.Fatalf("third write: changed=%v cache_id=%s", third.Changed, third.CacheID)
	}

	result, err := cache.Read(ctx, "winner", "games_all", "all")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if result == nil || !result.FromCache || result.Changed {
		t.Fatalf("read result = %+v", result)
	}
	if !bytes.Equal(result.Data, []byte(`{"a":9}`)) {
		t.Fatalf("read data = %s", result.Data)
	}
}

func TestFetchCacheReadMiss(t *testing.T) {
	t.Parallel()

	cache := NewFetchCache(memory.NewRawCacheRepository(), id.NewUUIDGenerator(), nil)
	result, err := cache.Read(context.Background(), "winner", "boxscore", "missing")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil on miss, got %+v", result)
	}
}
