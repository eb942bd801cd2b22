package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "quota:%s:%s"
	keyTTL    = 48 * time.Hour
)

// Counter tracks generations per client per day.
type Counter interface {
	// Take consumes one unit when fewer than limit were used on day.
	// It returns ErrQuotaExceeded otherwise and leaves the count unchanged.
	Take(ctx context.Context, clientID, day string, limit int) error
}

// RedisCounter keeps one INCR counter per client and day.
type RedisCounter struct {
	redis *redis.Client
}

func NewRedisCounter(redis *redis.Client) *RedisCounter {
	return &RedisCounter{redis: redis}
}

func (c *RedisCounter) Take(ctx context.Context, clientID, day string, limit int) error {
	key := fmt.Sprintf(keyPrefix, clientID, day)
	n, err := c.redis.Incr(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 1 {
		if err := c.redis.Expire(ctx, key, keyTTL).Err(); err != nil {
			return err
		}
	}
	if n > int64(limit) {
		// Rejected calls are not counted.
		if err := c.redis.Decr(ctx, key).Err(); err != nil {
			return err
		}
		return ErrQuotaExceeded
	}
	return nil
}

// MemoryCounter is used when no Redis address is configured. It only keeps
// counts for the most recent day it has seen.
type MemoryCounter struct {
	mu     sync.Mutex
	day    string
	counts map[string]int
}

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{counts: make(map[string]int)}
}

func (c *MemoryCounter) Take(_ context.Context, clientID, day string, limit int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if day != c.day {
		c.day = day
		c.counts = make(map[string]int)
	}
	if c.counts[clientID] >= limit {
		return ErrQuotaExceeded
	}
	c.counts[clientID]++
	return nil
}
