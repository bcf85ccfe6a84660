package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// DefaultChannel is the Pub/Sub channel shared by all surfaces.
const DefaultChannel = "tabas.surfaces"

// RedisMessenger carries signals between surface processes over Redis Pub/Sub.
// Delivery is fire-and-forget: a surface that is not subscribed misses the signal.
type RedisMessenger struct {
	client  *redis.Client
	channel string
	logger  logger.Logger
}

func NewRedisMessenger(client *redis.Client, channel string, log logger.Logger) *RedisMessenger {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisMessenger{
		client:  client,
		channel: channel,
		logger:  log,
	}
}

func (m *RedisMessenger) Publish(ctx context.Context, sig Signal) error {
	data, err := json.Marshal(sig)
	if err != nil {
		return fmt.Errorf("failed to marshal signal: %w", err)
	}
	if err := m.client.Publish(ctx, m.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish signal: %w", err)
	}
	return nil
}

// Subscribe returns once the subscription is confirmed by the server, so a
// signal published right after cannot be missed.
func (m *RedisMessenger) Subscribe(ctx context.Context) (<-chan Signal, error) {
	pubsub := m.client.Subscribe(ctx, m.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", m.channel, err)
	}

	out := make(chan Signal, subscriberBuffer)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var sig Signal
				if err := json.Unmarshal([]byte(msg.Payload), &sig); err != nil {
					m.logger.Warn("ignoring malformed surface signal",
						logger.String("channel", m.channel),
						logger.Error(err))
					continue
				}
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// Close is a no-op: the client belongs to the caller.
func (m *RedisMessenger) Close() error { return nil }
