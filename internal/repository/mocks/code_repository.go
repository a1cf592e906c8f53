package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lobby-backend/internal/domain"
)

// CodeRepository is a mock of repository.CodeRepository.
type CodeRepository struct {
	mock.Mock
}

func (m *CodeRepository) Create(ctx context.Context, code *domain.Code) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *CodeRepository) Get(ctx context.Context, email, code string) (*domain.Code, error) {
	args := m.Called(ctx, email, code)
	var c *domain.Code
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Code)
	}
	return c, args.Error(1)
}

func (m *CodeRepository) GetByEmail(ctx context.Context, email string) (*domain.Code, error) {
	args := m.Called(ctx, email)
	var c *domain.Code
	if args.Get(0) != nil {
		c = args.Get(0).(*domain.Code)
	}
	return c, args.Error(1)
}

func (m *CodeRepository) Delete(ctx context.Context, codeID uint) error {
	args := m.Called(ctx, codeID)
	return args.Error(0)
}
