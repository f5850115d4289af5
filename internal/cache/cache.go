package cache

import (
	"bytes"
	"container/list"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix = "readiness:"
	redisPingTimeout = 3 * time.Second
)

// Store is the key/value contract the readiness engine memoizes through.
// Backend failures are never returned: a failing Get is a miss and a failing
// Set is dropped.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Config describes the cache tiers.
type Config struct {
	// MaxEntries bounds the in-memory tier. Zero keeps every entry for the
	// process lifetime.
	MaxEntries int
	// TTL expires entries in both tiers. Zero never expires.
	TTL time.Duration
	// RedisURL enables the Redis tier when set.
	RedisURL string
	// KeyPrefix namespaces keys in Redis.
	KeyPrefix string
}

// Cache is a two-tier cache: a bounded in-memory map in front of an optional
// Redis instance. It is safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]*list.Element
	order      *list.List
	maxEntries int
	ttl        time.Duration

	rdb    *redis.Client
	prefix string
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// New builds a cache. An invalid Redis URL is an error, an unreachable Redis
// only disables the second tier.
func New(cfg Config, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxEntries < 0 {
		return nil, fmt.Errorf("cache max entries must not be negative, got %d", cfg.MaxEntries)
	}
	if cfg.TTL < 0 {
		return nil, fmt.Errorf("cache ttl must not be negative, got %s", cfg.TTL)
	}

	c := &Cache{
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		maxEntries: cfg.MaxEntries,
		ttl:        cfg.TTL,
		prefix:     cfg.KeyPrefix,
		logger:     logger,
	}
	if c.prefix == "" {
		c.prefix = defaultKeyPrefix
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}

		rdb := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, second cache tier disabled",
				zap.String("addr", opts.Addr),
				zap.Error(err),
			)
			_ = rdb.Close()
		} else {
			c.rdb = rdb
			logger.Debug("redis cache tier connected", zap.String("addr", opts.Addr))
		}
	}

	logger.Debug("cache initialized",
		zap.Int("max_entries", c.maxEntries),
		zap.Duration("ttl", c.ttl),
		zap.Bool("redis", c.rdb != nil),
	)

	return c, nil
}

// NewMemory returns an unbounded, memory-only cache that never expires.
func NewMemory(logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		prefix:  defaultKeyPrefix,
		logger:  logger,
	}
}

// Get looks the key up in memory first, then in Redis. A Redis hit is
// promoted to the memory tier.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := c.getLocal(key); ok {
		c.hits.Add(1)
		return data, true
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
		switch {
		case err == nil:
			c.setLocal(key, data)
			c.hits.Add(1)
			return bytes.Clone(data), true
		case errors.Is(err, redis.Nil):
		default:
			c.logger.Debug("redis get failed", zap.String("key", key), zap.Error(err))
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores value in every tier, replacing any previous entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	c.setLocal(key, value)

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, c.prefix+key, value, c.ttl).Err(); err != nil {
			c.logger.Debug("redis set failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Len returns the number of entries held in memory.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Stats returns hit and miss counters.
func (c *Cache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// RedisEnabled reports whether the Redis tier is active.
func (c *Cache) RedisEnabled() bool { return c.rdb != nil }

// Close releases the Redis connection, if any.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) getLocal(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	e := el.Value.(*entry)
	if e.expired(time.Now()) {
		c.order.Remove(el)
		delete(c.entries, key)
		return nil, false
	}

	return bytes.Clone(e.data), true
}

func (c *Cache) setLocal(key string, value []byte) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.data = bytes.Clone(value)
		e.expiresAt = expiresAt
		c.order.MoveToBack(el)
		return
	}

	c.entries[key] = c.order.PushBack(&entry{
		key:       key,
		data:      bytes.Clone(value),
		expiresAt: expiresAt,
	})

	c.evictLocked()
}

// evictLocked drops expired entries, then the oldest inserts, until the
// memory tier fits maxEntries.
func (c *Cache) evictLocked() {
	if c.maxEntries <= 0 || c.order.Len() <= c.maxEntries {
		return
	}

	now := time.Now()
	for el := c.order.Front(); el != nil && c.order.Len() > c.maxEntries; {
		next := el.Next()
		if e := el.Value.(*entry); e.expired(now) {
			c.order.Remove(el)
			delete(c.entries, e.key)
		}
		el = next
	}

	for c.order.Len() > c.maxEntries {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry).key)
	}
}
