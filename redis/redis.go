// Package redis provides the application cache. It talks to Redis when
// REDIS_ADDR is reachable and otherwise keeps entries in process memory.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/logger"
)

const (
	revokedPrefix = "revoked:"
	sweepInterval = time.Minute
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Cache struct {
	client *redis.Client
	log    logger.ILogger

	mu        sync.Mutex
	local     map[string]entry
	lastSweep time.Time
	now       func() time.Time
}

// New connects to Redis. When the address is empty or the ping fails the
// cache falls back to process memory.
func New(cfg config.Config, log logger.ILogger) *Cache {
	c := NewLocal(log)
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, using in-process cache")
		return c
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warning("redis unavailable, using in-process cache", logger.String("addr", cfg.RedisAddr), logger.Error(err))
		_ = client.Close()
		return c
	}

	log.Info("connected to redis", logger.String("addr", cfg.RedisAddr))
	c.client = client
	return c
}

func NewLocal(log logger.ILogger) *Cache {
	return &Cache{
		log:   log,
		local: make(map[string]entry),
		now:   time.Now,
	}
}

// Get decodes the JSON value stored under key into dst.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := c.get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.set(ctx, key, raw, ttl)
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if c.client != nil {
		return c.client.Del(ctx, keys...).Err()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.local, k)
	}
	return nil
}

// Revoke deny-lists a token id for ttl. It returns false when the id was
// already on the list.
func (c *Cache) Revoke(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	key := revokedPrefix + id
	if c.client != nil {
		return c.client.SetNX(ctx, key, "1", ttl).Result()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.local[key]; ok && !c.expired(e) {
		return false, nil
	}
	c.sweepLocked()
	c.local[key] = c.newEntry([]byte("1"), ttl)
	return true, nil
}

func (c *Cache) IsRevoked(ctx context.Context, id string) (bool, error) {
	_, ok, err := c.get(ctx, revokedPrefix+id)
	return ok, err
}

func (c *Cache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func (c *Cache) get(ctx context.Context, key string) ([]byte, bool, error) {
	if c.client != nil {
		raw, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, err
		}
		return raw, true, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.local[key]
	if !ok {
		return nil, false, nil
	}
	if c.expired(e) {
		delete(c.local, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (c *Cache) set(ctx context.Context, key string, raw []byte, ttl time.Duration) error {
	if c.client != nil {
		return c.client.Set(ctx, key, raw, ttl).Err()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sweepLocked()
	c.local[key] = c.newEntry(raw, ttl)
	return nil
}

func (c *Cache) newEntry(raw []byte, ttl time.Duration) entry {
	e := entry{value: raw}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	return e
}

func (c *Cache) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt)
}

// sweepLocked drops expired entries at most once per sweepInterval.
// Caller holds c.mu.
func (c *Cache) sweepLocked() {
	now := c.now()
	if now.Sub(c.lastSweep) < sweepInterval {
		return
	}
	c.lastSweep = now
	for k, e := range c.local {
		if c.expired(e) {
			delete(c.local, k)
		}
	}
}
