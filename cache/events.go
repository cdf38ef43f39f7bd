package cache

import (
	"context"
	"fmt"
)

// EventsChannel is the redis channel carrying service events. All instances
// publish here; each instance's SSE broker bridges the channel to its
// connected clients.
const EventsChannel = "juno:events"

// EventBus publishes service events through redis pub/sub
type EventBus struct {
	redis *RedisClient
}

// NewEventBus creates a new event bus over an established redis client
func NewEventBus(redis *RedisClient) *EventBus {
	return &EventBus{redis: redis}
}

// Publish sends an enveloped event to the shared channel
func (b *EventBus) Publish(ctx context.Context, event string, payload any) error {
	if b.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	envelope := map[string]any{
		"event":   event,
		"payload": payload,
	}
	return b.redis.Publish(ctx, EventsChannel, envelope)
}
