package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a pub/sub bus backed by a Redis channel, letting multiple API
// instances share validation notifications.
type Redis struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedis constructs a Redis-backed bus.
func NewRedis(client *redis.Client, channel string, logger *zap.Logger) *Redis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, channel: channel, logger: logger}
}

// Publish sends the event as JSON on the configured channel.
func (r *Redis) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal bus event: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish bus event: %w", err)
	}
	return nil
}

// Subscribe listens on the channel until cancelled.
func (r *Redis) Subscribe(ctx context.Context) (<-chan Event, func()) {
	pubsub := r.client.Subscribe(ctx, r.channel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.logger.Warn("discarding malformed bus event", zap.Error(err))
				continue
			}
			select {
			case out <- event:
			default:
				// consumer lagging; the poll cycle will catch it up
			}
		}
	}()

	cancel := func() {
		_ = pubsub.Close()
	}
	return out, cancel
}
