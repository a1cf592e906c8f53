package repository

import (
	"context"

	"lobby-backend/internal/domain"
)

// StateRepository holds the ephemeral lobby state in a fast store: lifecycle
// events fanned out to room subscribers and a cached room snapshot with TTL.
type StateRepository interface {
	// PublishRoomEvent pushes a lifecycle event to everyone subscribed to
	// the room's channel.
	PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error
	// SubscribeRoom starts delivering the room's events on the returned
	// channel until the cancel func is called.
	SubscribeRoom(ctx context.Context, roomID uint) (<-chan domain.RoomEvent, func(), error)
	// SaveRoomState caches an opaque JSON-serializable room snapshot.
	SaveRoomState(ctx context.Context, roomID uint, state any) error
	// GetRoomState loads the cached snapshot into dest; absent is not an error.
	GetRoomState(ctx context.Context, roomID uint, dest any) (bool, error)
	// ClearRoomState drops the cached snapshot.
	ClearRoomState(ctx context.Context, roomID uint) error
}
