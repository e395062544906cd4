package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, prefix string) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, prefix), server
}

func TestCacheHelper_SetGet(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "course:")

	type payload struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}

	stored := payload{ID: 7, Title: "German for Beginners"}
	if err := helper.Set(ctx, "id:7", stored, time.Minute); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	var loaded payload
	if err := helper.Get(ctx, "id:7", &loaded); err != nil {
		t.Fatalf("failed to get: %v", err)
	}
	if loaded != stored {
		t.Errorf("expected %+v, got %+v", stored, loaded)
	}
}

func TestCacheHelper_GetMissing(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "course:")

	var dest map[string]interface{}
	if err := helper.Get(ctx, "id:404", &dest); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound, got %v", err)
	}
}

func TestCacheHelper_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	helper, server := newTestCache(t, "enrollment:")

	if err := helper.SetString(ctx, "status:u1:1", "enrolled", 2*time.Minute); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	server.FastForward(3 * time.Minute)

	if _, err := helper.GetString(ctx, "status:u1:1"); err != ErrCacheNotFound {
		t.Errorf("expected ErrCacheNotFound after expiry, got %v", err)
	}
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "course:")

	for _, key := range []string{"id:1", "id:2", "list:all"} {
		if err := helper.SetString(ctx, key, "x", time.Minute); err != nil {
			t.Fatalf("failed to set %s: %v", key, err)
		}
	}

	if err := helper.InvalidatePattern(ctx, "id:*"); err != nil {
		t.Fatalf("failed to invalidate: %v", err)
	}

	if _, err := helper.GetString(ctx, "id:1"); err != ErrCacheNotFound {
		t.Errorf("expected id:1 to be gone, got %v", err)
	}
	if _, err := helper.GetString(ctx, "list:all"); err != nil {
		t.Errorf("expected list:all to survive, got %v", err)
	}
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	ctx := context.Background()
	helper := NewCacheHelper(nil, "course:")

	if err := helper.Set(ctx, "id:1", "x", time.Minute); err != nil {
		t.Errorf("set with nil client should be a no-op, got %v", err)
	}

	var dest string
	if err := helper.Get(ctx, "id:1", &dest); err != ErrCacheNotAvailable {
		t.Errorf("expected ErrCacheNotAvailable, got %v", err)
	}
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	ctx := context.Background()
	helper, _ := newTestCache(t, "course:")

	fetched := 0
	var dest string
	err := helper.CacheOrExecute(ctx, "id:9", &dest, time.Minute, func() (interface{}, error) {
		fetched++
		return "from-db", nil
	})
	if err != nil {
		t.Fatalf("cache-or-execute failed: %v", err)
	}
	if dest != "from-db" || fetched != 1 {
		t.Errorf("expected fetch to run once, got dest=%q fetched=%d", dest, fetched)
	}

	// Seed synchronously; the write inside CacheOrExecute is async.
	if err := helper.Set(ctx, "id:9", "from-db", time.Minute); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	dest = ""
	err = helper.CacheOrExecute(ctx, "id:9", &dest, time.Minute, func() (interface{}, error) {
		t.Fatal("fetch should not run on a cache hit")
		return nil, nil
	})
	if err != nil {
		t.Fatalf("cache-or-execute failed: %v", err)
	}
	if dest != "from-db" {
		t.Errorf("expected cached value, got %q", dest)
	}
}

func TestCacheManager_InvalidateCourse(t *testing.T) {
	ctx := context.Background()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	manager := NewCacheManager(client)

	// InvalidateCourse patterns carry the "course:" segment themselves,
	// so the seeded key must carry it too.
	if err := manager.Course.SetString(ctx, "course:id:3", "cached", time.Minute); err != nil {
		t.Fatalf("failed to seed: %v", err)
	}

	if err := manager.InvalidateCourse(ctx, 3); err != nil {
		t.Fatalf("failed to invalidate: %v", err)
	}

	if _, err := manager.Course.GetString(ctx, "course:id:3"); err != ErrCacheNotFound {
		t.Errorf("expected cached course to be gone, got %v", err)
	}
}
