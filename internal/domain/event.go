package domain

// Lobby event types published to subscribers of a room channel.
const (
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventPlayerBanned = "player_banned"
	EventHostChanged  = "host_changed"
	EventGameStarted  = "game_started"
	EventRoomDeleted  = "room_deleted"
)

// RoomEvent is a lobby lifecycle notification fanned out to websocket
// clients watching a room.
type RoomEvent struct {
	Type    string         `json:"type"`
	RoomID  uint           `json:"room_id"`
	Payload map[string]any `json:"payload,omitempty"`
}
