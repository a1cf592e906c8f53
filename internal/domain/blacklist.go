package domain

// BlacklistEntry bans a user from a room. Entries are never updated and are
// removed only when the owning room is deleted.
type BlacklistEntry struct {
	ID     uint `gorm:"primaryKey"`
	UserID uint `gorm:"index;not null"`
	RoomID uint `gorm:"index;not null"`
}

func (BlacklistEntry) TableName() string { return "blacklist" }
