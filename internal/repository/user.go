package repository

import (
	"context"

	"lobby-backend/internal/domain"
)

// UserUpdate carries the optional profile fields of a partial update. Nil
// means "leave unchanged".
type UserUpdate struct {
	Username      *string
	Email         *string
	Avatar        *string
	NicknameColor *string
}

// UserRepository stores accounts. The lobby service treats it as an
// authoritative, read-only collaborator; writes come from the user subsystem.
type UserRepository interface {
	// FindByID returns the user or ErrUserNotFound.
	FindByID(ctx context.Context, userID uint) (*domain.User, error)
	// FindByEmail returns the user or ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create inserts the user; ErrUsernameTaken / ErrEmailTaken on conflicts.
	Create(ctx context.Context, user *domain.User) error
	// Update applies a partial profile update; same conflict translation.
	Update(ctx context.Context, userID uint, update UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, userID uint) error
	// Activate flips the activation flag for the account with this email.
	Activate(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, userID uint, hashPassword string) error

	GetStatistics(ctx context.Context, userID uint) ([]domain.UserGameStatistics, error)
	GetAchievements(ctx context.Context, userID uint) ([]domain.GameAchievement, error)
}
