package directory

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"uniguide/backend/internal/model"
	"uniguide/backend/pkg/redis"
)

func TestMemoryCache_ExpiresOnRead(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return clock }

	c.Set(ctx, "k", []model.University{{Name: "A"}})
	if v, ok := c.Get(ctx, "k"); !ok || v[0].Name != "A" {
		t.Fatalf("fresh entry missing: %v %v", v, ok)
	}

	clock = clock.Add(time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry should expire after ttl")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry kept, len = %d", c.Len())
	}
}

func TestMemoryCache_InvalidateAndPurge(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour)
	c.Set(ctx, "a", nil)
	c.Set(ctx, "b", nil)

	c.Invalidate(ctx, "a")
	if _, ok := c.Get(ctx, "a"); ok {
		t.Error("invalidated key still present")
	}
	if _, ok := c.Get(ctx, "b"); !ok {
		t.Error("unrelated key dropped")
	}

	c.Purge(ctx)
	if c.Len() != 0 {
		t.Errorf("purge left %d entries", c.Len())
	}
}

func TestMemoryCache_ZeroTTLDisables(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	c.Set(ctx, "k", []model.University{{Name: "A"}})
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("zero ttl should not store")
	}
}

type fakeStore struct {
	data map[string]any
}

func (f *fakeStore) GetJSON(_ context.Context, key string, dest any) error {
	v, ok := f.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	*dest.(*[]model.University) = v.([]model.University)
	return nil
}

func (f *fakeStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeStore) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

func (f *fakeStore) DeletePrefix(_ context.Context, _ string) error {
	f.data = map[string]any{}
	return nil
}

func TestRedisCache_Prefixing(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{data: map[string]any{}}
	c := &RedisCache{store: store, ttl: time.Minute, logger: zap.NewNop()}

	c.Set(ctx, "country:germany", []model.University{{Name: "TUM"}})
	if _, ok := store.data["directory:country:germany"]; !ok {
		t.Fatalf("key not prefixed: %v", store.data)
	}
	if v, ok := c.Get(ctx, "country:germany"); !ok || v[0].Name != "TUM" {
		t.Errorf("get = %v %v", v, ok)
	}

	c.Invalidate(ctx, "country:germany")
	if _, ok := c.Get(ctx, "country:germany"); ok {
		t.Error("invalidated entry still readable")
	}

	c.Set(ctx, "x", nil)
	c.Purge(ctx)
	if len(store.data) != 0 {
		t.Errorf("purge left %v", store.data)
	}
}
