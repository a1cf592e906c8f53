package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// GormCodeRepository is the GORM implementation of repository.CodeRepository.
type GormCodeRepository struct {
	db *gorm.DB
}

func NewGormCodeRepository(db *gorm.DB) *GormCodeRepository {
	if db == nil {
		panic("database connection cannot be nil for GormCodeRepository")
	}
	return &GormCodeRepository{db: db}
}

func (r *GormCodeRepository) Create(ctx context.Context, code *domain.Code) error {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return fmt.Errorf("gorm: create verification code: %w", err)
	}
	return nil
}

func (r *GormCodeRepository) Get(ctx context.Context, email, code string) (*domain.Code, error) {
	var record domain.Code
	err := r.db.WithContext(ctx).Where("email = ? AND code = ?", email, code).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCodeNotFound
		}
		return nil, fmt.Errorf("gorm: get verification code: %w", err)
	}
	return &record, nil
}

func (r *GormCodeRepository) GetByEmail(ctx context.Context, email string) (*domain.Code, error) {
	var record domain.Code
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("gorm: get verification code by email: %w", err)
	}
	return &record, nil
}

func (r *GormCodeRepository) Delete(ctx context.Context, codeID uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Code{}, codeID).Error; err != nil {
		return fmt.Errorf("gorm: delete verification code %d: %w", codeID, err)
	}
	return nil
}
