package repository

import (
	"context"

	"lobby-backend/internal/domain"
)

// CodeRepository stores verification codes keyed by email.
type CodeRepository interface {
	Create(ctx context.Context, code *domain.Code) error
	// Get returns the code matching (email, code) or ErrCodeNotFound.
	Get(ctx context.Context, email, code string) (*domain.Code, error)
	// GetByEmail returns (nil, nil) when the email has no pending code.
	GetByEmail(ctx context.Context, email string) (*domain.Code, error)
	Delete(ctx context.Context, codeID uint) error
}
