package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"uniguide/backend/internal/model"
	"uniguide/backend/pkg/redis"
)

// Cache stores directory responses. Implementations own their expiry
// policy; callers invalidate explicitly.
type Cache interface {
	Get(ctx context.Context, key string) ([]model.University, bool)
	Set(ctx context.Context, key string, value []model.University)
	Invalidate(ctx context.Context, key string)
	Purge(ctx context.Context)
}

// ── in-memory ──

type memoryEntry struct {
	value     []model.University
	expiresAt time.Time
}

// MemoryCache is a TTL map. Expired entries are dropped when read or on
// Purge; there are no background timers.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache creates a cache whose entries live for ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.University, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *MemoryCache) Set(_ context.Context, key string, value []model.University) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(c.ttl)}
}

func (c *MemoryCache) Invalidate(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

func (c *MemoryCache) Purge(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]memoryEntry)
}

// Len counts live entries, dropping expired ones.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

// ── redis ──

const redisKeyPrefix = "directory:"

// jsonStore is the part of pkg/redis.Client the cache needs.
type jsonStore interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache shares directory responses across instances. Failures are
// logged and behave as misses.
type RedisCache struct {
	store  jsonStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisCache wraps a redis client.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	return &RedisCache{store: rdb, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.University, bool) {
	var out []model.University
	err := c.store.GetJSON(ctx, redisKeyPrefix+key, &out)
	if err != nil {
		if !errors.Is(err, redis.ErrCacheMiss) {
			c.logger.Warn("directory cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return out, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []model.University) {
	if c.ttl <= 0 {
		return
	}
	if err := c.store.SetJSON(ctx, redisKeyPrefix+key, value, c.ttl); err != nil {
		c.logger.Warn("directory cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, redisKeyPrefix+key); err != nil {
		c.logger.Warn("directory cache invalidate failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *RedisCache) Purge(ctx context.Context) {
	if err := c.store.DeletePrefix(ctx, redisKeyPrefix); err != nil {
		c.logger.Warn("directory cache purge failed", zap.Error(err))
	}
}
