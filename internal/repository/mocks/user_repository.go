package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// UserRepository is a mock of repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByID(ctx context.Context, userID uint) (*domain.User, error) {
	args := m.Called(ctx, userID)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) Update(ctx context.Context, userID uint, update repository.UserUpdate) (*domain.User, error) {
	args := m.Called(ctx, userID, update)
	var user *domain.User
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	return user, args.Error(1)
}

func (m *UserRepository) Delete(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepository) Activate(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *UserRepository) UpdatePassword(ctx context.Context, userID uint, hashPassword string) error {
	args := m.Called(ctx, userID, hashPassword)
	return args.Error(0)
}

func (m *UserRepository) GetStatistics(ctx context.Context, userID uint) ([]domain.UserGameStatistics, error) {
	args := m.Called(ctx, userID)
	var stats []domain.UserGameStatistics
	if args.Get(0) != nil {
		stats = args.Get(0).([]domain.UserGameStatistics)
	}
	return stats, args.Error(1)
}

func (m *UserRepository) GetAchievements(ctx context.Context, userID uint) ([]domain.GameAchievement, error) {
	args := m.Called(ctx, userID)
	var achievements []domain.GameAchievement
	if args.Get(0) != nil {
		achievements = args.Get(0).([]domain.GameAchievement)
	}
	return achievements, args.Error(1)
}
