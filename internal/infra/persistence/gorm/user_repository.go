package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// GormUserRepository is the GORM implementation of repository.UserRepository.
type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	if db == nil {
		panic("database connection cannot be nil for GormUserRepository")
	}
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) FindByID(ctx context.Context, userID uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Preload("Rank").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user %d: %w", userID, err)
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: find user by email: %w", err)
	}
	return &user, nil
}

func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if mapped := translateDuplicate(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("gorm: create user %q: %w", user.Username, err)
	}
	return nil
}

func (r *GormUserRepository) Update(ctx context.Context, userID uint, update repository.UserUpdate) (*domain.User, error) {
	values := map[string]any{}
	if update.Username != nil {
		values["username"] = *update.Username
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Avatar != nil {
		values["avatar"] = *update.Avatar
	}
	if update.NicknameColor != nil {
		values["nickname_color"] = *update.NicknameColor
	}
	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(values)
		if result.Error != nil {
			if mapped := translateDuplicate(result.Error); mapped != result.Error {
				return nil, mapped
			}
			return nil, fmt.Errorf("gorm: update user %d: %w", userID, result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, repository.ErrUserNotFound
		}
	}
	return r.FindByID(ctx, userID)
}

func (r *GormUserRepository) Delete(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.User{}, userID).Error; err != nil {
		return fmt.Errorf("gorm: delete user %d: %w", userID, err)
	}
	return nil
}

func (r *GormUserRepository) Activate(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", email).Update("is_active", true)
	if result.Error != nil {
		return fmt.Errorf("gorm: activate user by email: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) UpdatePassword(ctx context.Context, userID uint, hashPassword string) error {
	result := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).Update("hash_password", hashPassword)
	if result.Error != nil {
		return fmt.Errorf("gorm: update password of user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}

func (r *GormUserRepository) GetStatistics(ctx context.Context, userID uint) ([]domain.UserGameStatistics, error) {
	var stats []domain.UserGameStatistics
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: statistics of user %d: %w", userID, err)
	}
	return stats, nil
}

func (r *GormUserRepository) GetAchievements(ctx context.Context, userID uint) ([]domain.GameAchievement, error) {
	var achievements []domain.GameAchievement
	err := r.db.WithContext(ctx).Preload("Achievement").
		Where("user_id = ?", userID).Find(&achievements).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: achievements of user %d: %w", userID, err)
	}
	return achievements, nil
}
