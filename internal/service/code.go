package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

const codeLength = 6

// CodeService issues and checks the verification codes used for account
// activation and password recovery.
type CodeService struct {
	codeRepo repository.CodeRepository
	notifier Notifier
}

func NewCodeService(codeRepo repository.CodeRepository, notifier Notifier) *CodeService {
	if codeRepo == nil {
		panic("CodeRepository cannot be nil for CodeService")
	}
	return &CodeService{codeRepo: codeRepo, notifier: notifier}
}

// CreateCode enqueues delivery of a verification code for the email. A
// pending code for the same email is resent instead of minting a second one.
func (s *CodeService) CreateCode(ctx context.Context, email string) error {
	logCtx := logrus.WithField("email", email)

	pending, err := s.codeRepo.GetByEmail(ctx, email)
	if err != nil {
		logCtx.WithError(err).Error("CodeService.CreateCode: pending lookup failed")
		return ErrInternalServer
	}

	var code string
	if pending != nil {
		code = pending.Code
	} else {
		code, err = generateCode()
		if err != nil {
			logCtx.WithError(err).Error("CodeService.CreateCode: generation failed")
			return ErrInternalServer
		}
		if err := s.codeRepo.Create(ctx, &domain.Code{Code: code, Email: email}); err != nil {
			logCtx.WithError(err).Error("CodeService.CreateCode: persist failed")
			return ErrInternalServer
		}
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueVerificationCode(ctx, email, code); err != nil {
			logCtx.WithError(err).Error("CodeService.CreateCode: enqueue delivery failed")
			return ErrInternalServer
		}
	}
	logCtx.Info("Verification code issued")
	return nil
}

// VerifyCode returns the stored record matching (email, code) or
// ErrInvalidCode.
func (s *CodeService) VerifyCode(ctx context.Context, email, code string) (*domain.Code, error) {
	record, err := s.codeRepo.Get(ctx, email, code)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			logrus.WithField("email", email).Warn("CodeService.VerifyCode: no matching code")
			return nil, ErrInvalidCode
		}
		logrus.WithError(err).Error("CodeService.VerifyCode: lookup failed")
		return nil, ErrInternalServer
	}
	return record, nil
}

// DeleteCode drops a used code.
func (s *CodeService) DeleteCode(ctx context.Context, codeID uint) error {
	if err := s.codeRepo.Delete(ctx, codeID); err != nil {
		logrus.WithError(err).Error("CodeService.DeleteCode: delete failed")
		return ErrInternalServer
	}
	return nil
}

// generateCode draws a 6-digit numeric code from crypto/rand.
func generateCode() (string, error) {
	const digits = "0123456789"
	b := make([]byte, codeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i := range b {
		b[i] = digits[int(b[i])%len(digits)]
	}
	return string(b), nil
}
