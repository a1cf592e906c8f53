package domain

import "time"

// Rank is an experience tier users are promoted through.
type Rank struct {
	ID             string `gorm:"type:varchar(50);primaryKey"`
	Name           string `gorm:"type:varchar(50);not null"`
	PointsRequired int    `gorm:"default:0"`
}

// Achievement is a grantable badge looked up by name.
type Achievement struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);uniqueIndex:idx_achievement_name;not null"`
	Description string `gorm:"type:varchar(255)"`
}

// GameAchievement records one achievement grant to one user.
type GameAchievement struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"index;not null"`
	AchievementID uint      `gorm:"index;not null"`
	GameName      string    `gorm:"type:varchar(100)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Achievement *Achievement `gorm:"foreignKey:AchievementID"`
}

// UserGameStatistics accumulates per-user win/total counters for one game.
type UserGameStatistics struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   `gorm:"index;not null"`
	GameName   string `gorm:"type:varchar(100);not null"`
	WonGames   int    `gorm:"default:0"`
	TotalGames int    `gorm:"default:0"`
}

// GameHistory is an append-only record of one finished game. Players holds a
// JSON object mapping player name to score.
type GameHistory struct {
	ID        uint      `gorm:"primaryKey"`
	GameName  string    `gorm:"type:varchar(100);not null"`
	GameID    uint      `gorm:"index"`
	Players   string    `gorm:"type:json"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
