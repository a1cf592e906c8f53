package setup

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lobby-backend/internal/domain"
)

// MigrateDB creates or updates every table of the domain model.
func MigrateDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("cannot migrate database with nil DB connection")
	}
	err := db.AutoMigrate(
		&domain.Rank{},
		&domain.User{},
		&domain.Room{},
		&domain.Player{},
		&domain.BlacklistEntry{},
		&domain.Code{},
		&domain.Achievement{},
		&domain.GameAchievement{},
		&domain.UserGameStatistics{},
		&domain.GameHistory{},
	)
	if err != nil {
		return fmt.Errorf("setup: auto-migrate: %w", err)
	}
	if err := seedRanks(db); err != nil {
		return err
	}
	if err := seedAchievements(db); err != nil {
		return err
	}
	logrus.Info("Database migration completed")
	return nil
}

// seedRanks loads the experience tiers once; an already-seeded table is left
// untouched.
func seedRanks(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Rank{}).Count(&count).Error; err != nil {
		return fmt.Errorf("setup: count ranks: %w", err)
	}
	if count > 0 {
		return nil
	}
	ranks := []domain.Rank{
		{ID: "novice", Name: "Novice", PointsRequired: 0},
		{ID: "apprentice", Name: "Apprentice", PointsRequired: 100},
		{ID: "veteran", Name: "Veteran", PointsRequired: 500},
		{ID: "master", Name: "Master", PointsRequired: 1500},
		{ID: "grandmaster", Name: "Grandmaster", PointsRequired: 5000},
	}
	if err := db.Create(&ranks).Error; err != nil {
		return fmt.Errorf("setup: seed ranks: %w", err)
	}
	logrus.Infof("Seeded %d ranks", len(ranks))
	return nil
}

func seedAchievements(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Achievement{}).Count(&count).Error; err != nil {
		return fmt.Errorf("setup: count achievements: %w", err)
	}
	if count > 0 {
		return nil
	}
	achievements := []domain.Achievement{
		{Name: "first_win", Description: "Win your first game"},
		{Name: "ten_wins", Description: "Win ten games"},
		{Name: "marathon", Description: "Play one hundred games"},
		{Name: "host_with_the_most", Description: "Host twenty rooms"},
	}
	if err := db.Create(&achievements).Error; err != nil {
		return fmt.Errorf("setup: seed achievements: %w", err)
	}
	logrus.Infof("Seeded %d achievements", len(achievements))
	return nil
}
