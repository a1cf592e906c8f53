package domain

import "time"

// GameNamePending is the placeholder game name a room carries until the host
// picks a game.
const GameNamePending = "pending"

// Room is a joinable lobby with a capacity, visibility and optional password.
// Deleting a room cascades to its players and blacklist entries.
type Room struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"type:varchar(100);uniqueIndex:idx_room_title;not null"`
	IsPrivate  bool      `gorm:"default:false"`
	Password   *string   `gorm:"type:varchar(50)"`
	GameName   string    `gorm:"type:varchar(100);default:pending"`
	MaxPlayers int       `gorm:"default:12"`
	Started    bool      `gorm:"default:false"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	AFKTime    time.Time `gorm:"index"` // last-activity marker, used by the stale sweep

	Players   []Player         `gorm:"constraint:OnDelete:CASCADE"`
	Blacklist []BlacklistEntry `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// HasPassword reports whether joining the room requires a password.
func (r *Room) HasPassword() bool {
	return r.Password != nil && *r.Password != ""
}
