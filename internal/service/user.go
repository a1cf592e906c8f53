package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// Notifier delivers user-facing email asynchronously. The asynq-backed
// implementation lives in the tasks package; tests use a fake.
type Notifier interface {
	EnqueueConfirmationEmail(ctx context.Context, email string) error
	EnqueueVerificationCode(ctx context.Context, email, code string) error
}

// RegisterInput carries the already-validated fields of a registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries the optional fields of a profile update.
type UpdateUserInput struct {
	Username      *string
	Email         *string
	Avatar        *string
	NicknameColor *string
}

// TokenPair is an access/refresh token couple issued on login.
type TokenPair struct {
	Access  string
	Refresh string
}

// UserProfile is the current user's account joined with game statistics and
// achievements.
type UserProfile struct {
	User         *domain.User
	Statistics   []domain.UserGameStatistics
	Achievements []domain.GameAchievement
}

const refreshExpiryHours = 24 * 7

// UserService covers registration, login, activation, profile management and
// password recovery.
type UserService struct {
	userRepo       repository.UserRepository
	codes          *CodeService
	notifier       Notifier
	jwtSecret      string
	jwtExpiryHours int
}

func NewUserService(userRepo repository.UserRepository, codes *CodeService, notifier Notifier, jwtSecret string, jwtExpiryHours int) (*UserService, error) {
	if userRepo == nil {
		return nil, errors.New("UserRepository cannot be nil for UserService")
	}
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty for UserService")
	}
	if jwtExpiryHours <= 0 {
		jwtExpiryHours = 24
	}
	return &UserService{
		userRepo:       userRepo,
		codes:          codes,
		notifier:       notifier,
		jwtSecret:      jwtSecret,
		jwtExpiryHours: jwtExpiryHours,
	}, nil
}

// Register creates an account and enqueues the confirmation email. The
// returned user has its password hash cleared.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	logCtx := logrus.WithFields(logrus.Fields{"username": input.Username, "email": input.Email})

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logCtx.WithError(err).Error("UserService.Register: hashing failed")
		return nil, ErrInternalServer
	}
	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		HashPassword: string(hash),
		Status:       true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			logCtx.Warn("UserService.Register: username taken")
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			logCtx.Warn("UserService.Register: email taken")
			return nil, ErrEmailTaken
		}
		logCtx.WithError(err).Error("UserService.Register: create failed")
		return nil, ErrInternalServer
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueConfirmationEmail(ctx, user.Email); err != nil {
			// Registration already committed; the user can request a new
			// confirmation mail later.
			logCtx.WithError(err).Warn("UserService.Register: enqueue confirmation email failed")
		}
	}

	logCtx.WithField("user_id", user.ID).Info("User registered")
	user.HashPassword = ""
	return user, nil
}

// Login checks credentials and account gates, then issues a token pair.
func (s *UserService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("UserService.Login: unknown email")
			return TokenPair{}, ErrAuthenticationFailed
		}
		logCtx.WithError(err).Error("UserService.Login: lookup failed")
		return TokenPair{}, ErrInternalServer
	}
	if bcrypt.CompareHashAndPassword([]byte(user.HashPassword), []byte(password)) != nil {
		logCtx.Warn("UserService.Login: wrong password")
		return TokenPair{}, ErrAuthenticationFailed
	}
	if !user.Status {
		logCtx.Warn("UserService.Login: account disabled")
		return TokenPair{}, ErrUserDisabled
	}
	if !user.IsActive {
		logCtx.Warn("UserService.Login: account not activated")
		return TokenPair{}, ErrUserNotActive
	}

	access, err := s.signToken(user.ID, time.Duration(s.jwtExpiryHours)*time.Hour)
	if err != nil {
		logCtx.WithError(err).Error("UserService.Login: signing access token failed")
		return TokenPair{}, ErrInternalServer
	}
	refresh, err := s.signToken(user.ID, refreshExpiryHours*time.Hour)
	if err != nil {
		logCtx.WithError(err).Error("UserService.Login: signing refresh token failed")
		return TokenPair{}, ErrInternalServer
	}
	logCtx.WithField("user_id", user.ID).Info("User logged in")
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// Activate flips the activation flag of the account behind email.
func (s *UserService) Activate(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logrus.WithError(err).Error("UserService.Activate: lookup failed")
		return ErrInternalServer
	}
	if user.IsActive {
		return ErrUserAlreadyActive
	}
	if err := s.userRepo.Activate(ctx, email); err != nil {
		logrus.WithError(err).Error("UserService.Activate: update failed")
		return ErrInternalServer
	}
	logrus.WithField("user_id", user.ID).Info("User activated")
	return nil
}

// GetCurrentUser returns the account with its statistics and achievements.
func (s *UserService) GetCurrentUser(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("UserService.GetCurrentUser: lookup failed")
		return nil, ErrInternalServer
	}
	stats, err := s.userRepo.GetStatistics(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("UserService.GetCurrentUser: statistics failed")
		return nil, ErrInternalServer
	}
	achievements, err := s.userRepo.GetAchievements(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("UserService.GetCurrentUser: achievements failed")
		return nil, ErrInternalServer
	}
	user.HashPassword = ""
	return &UserProfile{User: user, Statistics: stats, Achievements: achievements}, nil
}

// GetPublicUser returns another account's public profile joined with its game
// statistics. Email and admin flags stay private.
func (s *UserService) GetPublicUser(ctx context.Context, userID uint) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logrus.WithError(err).Error("UserService.GetPublicUser: lookup failed")
		return nil, ErrInternalServer
	}
	stats, err := s.userRepo.GetStatistics(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("UserService.GetPublicUser: statistics failed")
		return nil, ErrInternalServer
	}
	achievements, err := s.userRepo.GetAchievements(ctx, userID)
	if err != nil {
		logrus.WithError(err).Error("UserService.GetPublicUser: achievements failed")
		return nil, ErrInternalServer
	}
	user.HashPassword = ""
	user.Email = ""
	user.IsAdmin = false
	return &UserProfile{User: user, Statistics: stats, Achievements: achievements}, nil
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, userID uint, input UpdateUserInput) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, userID, repository.UserUpdate{
		Username:      input.Username,
		Email:         input.Email,
		Avatar:        input.Avatar,
		NicknameColor: input.NicknameColor,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		}
		logrus.WithError(err).Error("UserService.Update: update failed")
		return nil, ErrInternalServer
	}
	user.HashPassword = ""
	return user, nil
}

// Delete removes the account.
func (s *UserService) Delete(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("UserService.Delete: delete failed")
		return ErrInternalServer
	}
	return nil
}

// RecoverPassword issues a verification code to the account email.
func (s *UserService) RecoverPassword(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logrus.WithError(err).Error("UserService.RecoverPassword: lookup failed")
		return ErrInternalServer
	}
	if s.codes == nil {
		return ErrInternalServer
	}
	return s.codes.CreateCode(ctx, email)
}

// ResetPassword sets a new password after the recovery code checks out. The
// code is single-use and deleted on success.
func (s *UserService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	logCtx := logrus.WithField("email", email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("UserService.ResetPassword: lookup failed")
		return ErrInternalServer
	}
	if s.codes == nil {
		return ErrInternalServer
	}
	record, err := s.codes.VerifyCode(ctx, email, code)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logCtx.WithError(err).Error("UserService.ResetPassword: hashing failed")
		return ErrInternalServer
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		logCtx.WithError(err).Error("UserService.ResetPassword: update failed")
		return ErrInternalServer
	}
	if err := s.codes.DeleteCode(ctx, record.ID); err != nil {
		// The password change already landed; a leftover code only blocks
		// its own reuse window.
		logCtx.WithError(err).Warn("UserService.ResetPassword: deleting used code failed")
	}
	logCtx.WithField("user_id", user.ID).Info("Password reset")
	return nil
}

func (s *UserService) signToken(userID uint, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
