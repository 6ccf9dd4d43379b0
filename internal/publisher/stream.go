package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

// StreamKey is the Redis stream match updates are appended to.
const StreamKey = "matches.updates.cricket"

// StreamPublisher publishes match updates to a Redis stream
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewStreamPublisher creates a new stream publisher. maxLen caps the stream
// approximately; zero leaves it unbounded.
func NewStreamPublisher(client *redis.Client, maxLen int64) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: maxLen,
	}
}

// PublishMatchUpdate appends a match update to the stream
func (p *StreamPublisher) PublishMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error {
	args, err := updateArgs(matchKey, state, p.maxLen)
	if err != nil {
		return err
	}
	return p.client.XAdd(ctx, args).Err()
}

// OnMatchUpdate implements contracts.Listener.
func (p *StreamPublisher) OnMatchUpdate(ctx context.Context, matchKey string, state *models.MatchState) error {
	return p.PublishMatchUpdate(ctx, matchKey, state)
}

func updateArgs(matchKey string, state *models.MatchState, maxLen int64) (*redis.XAddArgs, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshaling match update: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: StreamKey,
		Values: map[string]interface{}{
			"data":      string(data),
			"match_key": matchKey,
			"status":    state.MatchInfo.Status,
		},
	}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return args, nil
}
