package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueryAnsweredStream receives one entry per answered question
const QueryAnsweredStream = "queries.answered.basketball_nba"

// QueryAnswered describes the outcome of a question
type QueryAnswered struct {
	Question   string    `json:"question"`
	Kind       string    `json:"kind"`
	Answer     string    `json:"answer"`
	PlayerID   string    `json:"player_id,omitempty"`
	PlayerName string    `json:"player_name,omitempty"`
	Count      *int      `json:"count,omitempty"`
	Season     string    `json:"season,omitempty"`
	AnsweredAt time.Time `json:"answered_at"`
}

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client.
// Streams are trimmed to roughly maxLen entries; 0 disables trimming.
func NewRedisStreamPublisher(client *redis.Client, maxLen int64) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		maxLen: maxLen,
	}
}

// PublishQueryAnswered appends the event to QueryAnsweredStream
func (rsp *RedisStreamPublisher) PublishQueryAnswered(ctx context.Context, event QueryAnswered) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: QueryAnsweredStream,
		Values: map[string]interface{}{
			"kind":      event.Kind,
			"data":      string(data),
			"timestamp": event.AnsweredAt.Unix(),
		},
	}
	if rsp.maxLen > 0 {
		args.MaxLen = rsp.maxLen
		args.Approx = true
	}

	if err := rsp.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", QueryAnsweredStream, err)
	}
	return nil
}
