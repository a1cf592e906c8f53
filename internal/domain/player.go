package domain

// Player binds a user to a room. Name, avatar, color and VIP status are
// copied from the user row when the player is created; they are a snapshot,
// not a live reference. UserID is nullable to allow anonymous players, but at
// most one active player row may exist per user (the lobby service removes
// stale rows before every join).
type Player struct {
	ID            uint    `gorm:"primaryKey"`
	Name          string  `gorm:"type:varchar(50);not null"`
	UserID        *uint   `gorm:"index"`
	RoomID        uint    `gorm:"index;not null"`
	IsHost        bool    `gorm:"default:false"`
	IsDisconnect  bool    `gorm:"default:false"`
	NicknameColor string  `gorm:"type:varchar(8);default:#00FFFF"`
	Avatar        *string `gorm:"type:varchar(255)"`
	IsVIP         bool    `gorm:"default:false"`
}
