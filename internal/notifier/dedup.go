package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDedupTTL is how long a sent event is remembered.
const DefaultDedupTTL = 12 * time.Hour

// Gate decides whether an event is new.
type Gate interface {
	ShouldAlert(ctx context.Context, matchKey, event string) (bool, error)
}

// RedisGate deduplicates alerts using Redis
type RedisGate struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGate creates a new Redis-backed gate
func NewRedisGate(client *redis.Client, ttl time.Duration) *RedisGate {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &RedisGate{client: client, ttl: ttl}
}

func dedupKey(matchKey, event string) string {
	return fmt.Sprintf("alert:dedup:%s:%s", matchKey, event)
}

// ShouldAlert claims the event; only the first caller gets true
func (g *RedisGate) ShouldAlert(ctx context.Context, matchKey, event string) (bool, error) {
	ok, err := g.client.SetNX(ctx, dedupKey(matchKey, event), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}
	return ok, nil
}

// MemoryGate is an in-process gate for running without Redis.
type MemoryGate struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	seen map[string]time.Time
}

// NewMemoryGate creates an empty in-memory gate
func NewMemoryGate(ttl time.Duration) *MemoryGate {
	if ttl <= 0 {
		ttl = DefaultDedupTTL
	}
	return &MemoryGate{ttl: ttl, now: time.Now, seen: make(map[string]time.Time)}
}

// ShouldAlert claims the event; only the first caller within the TTL gets true
func (g *MemoryGate) ShouldAlert(ctx context.Context, matchKey, event string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.seen {
		if now.After(exp) {
			delete(g.seen, k)
		}
	}

	key := dedupKey(matchKey, event)
	if _, ok := g.seen[key]; ok {
		return false, nil
	}
	g.seen[key] = now.Add(g.ttl)
	return true, nil
}
