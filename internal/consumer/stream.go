// Package consumer feeds the live hub from the shared update stream, so every
// replica broadcasts updates made by any of them.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/scorecard"
	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/pkg/models"
)

const (
	// Batch size for reading messages
	batchSize = 100

	// Block duration when waiting for new messages
	blockDuration = 1 * time.Second
)

// Broadcaster receives decoded updates.
type Broadcaster interface {
	Broadcast(update models.MatchUpdate)
}

// StreamConsumer tails the match update stream. It reads without a consumer
// group because every replica needs every message.
type StreamConsumer struct {
	redis  *redis.Client
	out    Broadcaster
	stream string
	logger *slog.Logger
}

// NewStreamConsumer creates a consumer of the match update stream
func NewStreamConsumer(redisClient *redis.Client, out Broadcaster, logger *slog.Logger) *StreamConsumer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamConsumer{
		redis:  redisClient,
		out:    out,
		stream: publisher.StreamKey,
		logger: logger.With("component", "consumer", "stream", publisher.StreamKey),
	}
}

// Run consumes new messages until ctx is cancelled
func (sc *StreamConsumer) Run(ctx context.Context) {
	sc.logger.Info("stream consumer started")
	lastID := "$"

	for {
		if ctx.Err() != nil {
			return
		}

		streams, err := sc.redis.XRead(ctx, &redis.XReadArgs{
			Streams: []string{sc.stream, lastID},
			Count:   batchSize,
			Block:   blockDuration,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			sc.logger.Warn("stream read failed", "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				lastID = msg.ID
				update, err := DecodeUpdate(msg)
				if err != nil {
					sc.logger.Warn("skipping malformed message", "id", msg.ID, "error", err)
					continue
				}
				sc.out.Broadcast(update)
			}
		}
	}
}

// DecodeUpdate turns a published stream entry back into a hub update
func DecodeUpdate(msg redis.XMessage) (models.MatchUpdate, error) {
	data, ok := msg.Values["data"].(string)
	if !ok {
		return models.MatchUpdate{}, fmt.Errorf("message %s has no data field", msg.ID)
	}
	key, _ := msg.Values["match_key"].(string)

	var state models.MatchState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return models.MatchUpdate{}, fmt.Errorf("parsing match state: %w", err)
	}
	if key == "" {
		key = state.MatchInfo.MatchID + "_" + state.MatchInfo.TournamentID
	}

	return models.MatchUpdate{
		MatchKey: key,
		Phase:    scorecard.MatchPhase(&state),
		State:    &state,
	}, nil
}
