package redisstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
)

// stateTTL is how long a cached room snapshot lives without being refreshed.
const stateTTL = 20 * time.Minute

// RedisStateRepository is the Redis implementation of
// repository.StateRepository: pub/sub for lobby lifecycle events and JSON
// room snapshots with a TTL.
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "lobby:"
	}
	return &RedisStateRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStateRepository) roomEventsChannel(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:events", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) roomStateKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:state", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("redis: marshal room event %q: %w", event.Type, err)
	}
	channel := r.roomEventsChannel(event.RoomID)
	if err := r.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis: publish room event to %s: %w", channel, err)
	}
	return nil
}

// SubscribeRoom relays the room's event channel onto a Go channel. The
// returned cancel func closes the subscription and the channel.
func (r *RedisStateRepository) SubscribeRoom(ctx context.Context, roomID uint) (<-chan domain.RoomEvent, func(), error) {
	channel := r.roomEventsChannel(roomID)
	pubsub := r.client.Subscribe(ctx, channel)
	// Receive forces the SUBSCRIBE round trip so a broken connection fails
	// here instead of silently dropping events.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("redis: subscribe to %s: %w", channel, err)
	}

	events := make(chan domain.RoomEvent, 32)
	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event domain.RoomEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logrus.WithError(err).WithField("channel", channel).
					Warn("redis: dropping malformed room event")
				continue
			}
			select {
			case events <- event:
			default:
				logrus.WithField("channel", channel).
					Warn("redis: room event buffer full, dropping event")
			}
		}
	}()

	cancel := func() {
		if err := pubsub.Close(); err != nil {
			logrus.WithError(err).WithField("channel", channel).
				Warn("redis: closing room subscription failed")
		}
	}
	return events, cancel, nil
}

func (r *RedisStateRepository) SaveRoomState(ctx context.Context, roomID uint, state any) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("redis: marshal state of room %d: %w", roomID, err)
	}
	key := r.roomStateKey(roomID)
	if err := r.client.Set(ctx, key, payload, stateTTL).Err(); err != nil {
		return fmt.Errorf("redis: save state of room %d: %w", roomID, err)
	}
	return nil
}

func (r *RedisStateRepository) GetRoomState(ctx context.Context, roomID uint, dest any) (bool, error) {
	key := r.roomStateKey(roomID)
	payload, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis: load state of room %d: %w", roomID, err)
	}
	if err := json.Unmarshal([]byte(payload), dest); err != nil {
		return false, fmt.Errorf("redis: decode state of room %d: %w", roomID, err)
	}
	return true, nil
}

func (r *RedisStateRepository) ClearRoomState(ctx context.Context, roomID uint) error {
	if err := r.client.Del(ctx, r.roomStateKey(roomID)).Err(); err != nil {
		return fmt.Errorf("redis: clear state of room %d: %w", roomID, err)
	}
	return nil
}
