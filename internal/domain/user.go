package domain

import "time"

// User is a registered account. InRoom is a denormalized occupancy flag kept
// in sync by the lobby service whenever a player row is created or removed.
type User struct {
	ID            uint       `gorm:"primaryKey"`
	Username      string     `gorm:"type:varchar(50);uniqueIndex:idx_username;not null"`
	Email         string     `gorm:"type:varchar(191);uniqueIndex:idx_email;not null"`
	HashPassword  string     `gorm:"type:varchar(120)"`
	Exp           int        `gorm:"default:0"`
	RankID        *string    `gorm:"type:varchar(50)"`
	Status        bool       `gorm:"default:false"`
	IsActive      bool       `gorm:"default:false"`
	IsAdmin       bool       `gorm:"default:false"`
	InRoom        bool       `gorm:"default:false"`
	Avatar        *string    `gorm:"type:varchar(255)"`
	NicknameColor string     `gorm:"type:varchar(8);default:#00FFFF"`
	IsVIP         bool       `gorm:"default:false"`
	VIPSince      *time.Time ``
	Coins         int        `gorm:"default:0"`
	LastGameAt    time.Time  ``
	DateJoined    time.Time  `gorm:"autoCreateTime"`

	Rank *Rank `gorm:"foreignKey:RankID"`
}
