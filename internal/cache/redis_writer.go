package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// TTL constants
const (
	LiveMatchTTL     = 2 * time.Hour
	CompleteMatchTTL = 6 * time.Hour
	TrackedListTTL   = 24 * time.Hour
)

// TrackedMatchesKey holds the keys of every match the service follows.
const TrackedMatchesKey = "matches:tracked"

// ErrNotCached is returned when no state is stored for a match.
var ErrNotCached = errors.New("match state not cached")

// KeyLister supplies the tracked match keys written alongside each state.
type KeyLister interface {
	Keys() []string
}

// RedisWriter handles writing match data to Redis
type RedisWriter struct {
	client  *redis.Client
	tracked KeyLister
}

// NewRedisWriter creates a new Redis writer. tracked may be nil, in which
// case the tracked list is only written through WriteTrackedMatches.
func NewRedisWriter(client *redis.Client, tracked KeyLister) *RedisWriter {
	return &RedisWriter{
		client:  client,
		tracked: tracked,
	}
}

func stateKey(matchKey string) string {
	return fmt.Sprintf("match:%s:state", matchKey)
}

// WriteMatchState stores the full state of a match
func (w *RedisWriter) WriteMatchState(ctx context.Context, matchKey string, state *models.MatchState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling match state: %w", err)
	}
	return w.client.Set(ctx, stateKey(matchKey), data, ttlFor(state)).Err()
}

// WriteTrackedMatches replaces the tracked match list
func (w *RedisWriter) WriteTrackedMatches(ctx context.Context, keys []string) error {
	values := make([]interface{}, len(keys))
	for i, k := range keys {
		values[i] = k
	}

	pipe := w.client.Pipeline()
	pipe.Del(ctx, TrackedMatchesKey)
	if len(values) > 0 {
		pipe.RPush(ctx, TrackedMatchesKey, values...)
	}
	pipe.Expire(ctx, TrackedMatchesKey, TrackedListTTL)

	_, err := pipe.Exec(ctx)
	return err
}

// ReadMatchState retrieves a cached match state
func (w *RedisWriter) ReadMatchState(ctx context.Context, matchKey string) (*models.MatchState, error) {
	data, err := w.client.Get(ctx, stateKey(matchKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	var state models.MatchState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("unmarshaling match state: %w", err)
	}
	return &state, nil
}

// ReadTrackedMatches retrieves the tracked match keys
func (w *RedisWriter) ReadTrackedMatches(ctx context.Context) ([]string, error) {
	return w.client.LRange(ctx, TrackedMatchesKey, 0, -1).Result()
}

// OnMatchUpdate caches the new state and the current tracked list.
func (w *RedisWriter) OnMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error {
	if err := w.WriteMatchState(ctx, matchKey, state); err != nil {
		return fmt.Errorf("caching match %s: %w", matchKey, err)
	}
	if w.tracked == nil {
		return nil
	}
	if err := w.WriteTrackedMatches(ctx, w.tracked.Keys()); err != nil {
		return fmt.Errorf("caching tracked list: %w", err)
	}
	return nil
}

func ttlFor(state *models.MatchState) time.Duration {
	if state.IsComplete() {
		return CompleteMatchTTL
	}
	return LiveMatchTTL
}
