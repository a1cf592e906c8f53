package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/service"
)

// UserHandler covers registration, login, activation, profile and password
// recovery endpoints.
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterRequest is the body of POST /api/users/register.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register handles POST /api/users/register.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Register: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"username": req.Username, "email": req.Email})

	user, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Register: Registration failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("user_id", user.ID).Info("Handler.Register: User registered successfully")
	SuccessResponse(c, http.StatusCreated, gin.H{
		"message": "User registered successfully, check your email to activate the account",
		"user_id": user.ID,
	})
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token pair.
type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login handles POST /api/users/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.Login: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email and password required")
		return
	}
	logCtx := logrus.WithField("email", req.Email)

	tokens, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Login: Login failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.Login: User logged in successfully")
	SuccessResponse(c, http.StatusOK, LoginResponse{
		Message:      "Login successful",
		AccessToken:  tokens.Access,
		RefreshToken: tokens.Refresh,
	})
}

// Activate handles GET /api/users/activate?email=...
func (h *UserHandler) Activate(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		ErrorResponse(c, http.StatusBadRequest, "Missing email parameter")
		return
	}
	logCtx := logrus.WithField("email", email)

	if err := h.userService.Activate(c.Request.Context(), email); err != nil {
		logCtx.WithError(err).Warn("Handler.Activate: Activation failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.Activate: Account activated")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Account activated"})
}

// ProfileResponse is the wire shape of the current user with statistics.
type ProfileResponse struct {
	ID            uint                        `json:"id"`
	Username      string                      `json:"username"`
	Email         string                      `json:"email"`
	Avatar        *string                     `json:"avatar,omitempty"`
	NicknameColor string                      `json:"nickname_color"`
	IsVIP         bool                        `json:"is_vip"`
	IsAdmin       bool                        `json:"is_admin"`
	InRoom        bool                        `json:"in_room"`
	Statistics    []domain.UserGameStatistics `json:"statistics"`
	Achievements  []domain.GameAchievement    `json:"achievements"`
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	profile, err := h.userService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Me: Failed to load profile")
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, ProfileResponse{
		ID:            profile.User.ID,
		Username:      profile.User.Username,
		Email:         profile.User.Email,
		Avatar:        profile.User.Avatar,
		NicknameColor: profile.User.NicknameColor,
		IsVIP:         profile.User.IsVIP,
		IsAdmin:       profile.User.IsAdmin,
		InRoom:        profile.User.InRoom,
		Statistics:    profile.Statistics,
		Achievements:  profile.Achievements,
	})
}

// PublicProfileResponse is the wire shape of another user's profile. No email
// or admin flag.
type PublicProfileResponse struct {
	ID            uint                        `json:"id"`
	Username      string                      `json:"username"`
	Avatar        *string                     `json:"avatar,omitempty"`
	NicknameColor string                      `json:"nickname_color"`
	IsVIP         bool                        `json:"is_vip"`
	InRoom        bool                        `json:"in_room"`
	Statistics    []domain.UserGameStatistics `json:"statistics"`
	Achievements  []domain.GameAchievement    `json:"achievements"`
}

// GetUser handles GET /api/users/:userId.
func (h *UserHandler) GetUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}
	logCtx := logrus.WithField("target_user_id", targetID)

	profile, err := h.userService.GetPublicUser(c.Request.Context(), uint(targetID))
	if err != nil {
		logCtx.WithError(err).Warn("Handler.GetUser: Failed to load profile")
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, PublicProfileResponse{
		ID:            profile.User.ID,
		Username:      profile.User.Username,
		Avatar:        profile.User.Avatar,
		NicknameColor: profile.User.NicknameColor,
		IsVIP:         profile.User.IsVIP,
		InRoom:        profile.User.InRoom,
		Statistics:    profile.Statistics,
		Achievements:  profile.Achievements,
	})
}

// UpdateUserRequest is the body of PATCH /api/users/me.
type UpdateUserRequest struct {
	Username      *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Avatar        *string `json:"avatar" binding:"omitempty,max=255"`
	NicknameColor *string `json:"nickname_color" binding:"omitempty,len=7"`
}

// Update handles PATCH /api/users/me.
func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.Update: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	user, err := h.userService.Update(c.Request.Context(), userID, service.UpdateUserInput{
		Username:      req.Username,
		Email:         req.Email,
		Avatar:        req.Avatar,
		NicknameColor: req.NicknameColor,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.Update: Update failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.Update: Profile updated")
	SuccessResponse(c, http.StatusOK, gin.H{
		"message":  "Profile updated",
		"username": user.Username,
		"email":    user.Email,
	})
}

// Delete handles DELETE /api/users/me.
func (h *UserHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		logCtx.WithError(err).Warn("Handler.Delete: Deletion failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.Delete: Account deleted")
	c.Status(http.StatusNoContent)
}

// RecoverPasswordRequest is the body of POST /api/users/recover.
type RecoverPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RecoverPassword handles POST /api/users/recover. The response does not
// reveal whether the email exists.
func (h *UserHandler) RecoverPassword(c *gin.Context) {
	var req RecoverPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.RecoverPassword: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: email is required")
		return
	}

	if err := h.userService.RecoverPassword(c.Request.Context(), req.Email); err != nil {
		logrus.WithError(err).WithField("email", req.Email).Warn("Handler.RecoverPassword: Recovery failed")
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "If the account exists, a verification code has been sent"})
}

// ResetPasswordRequest is the body of POST /api/users/reset.
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ResetPassword handles POST /api/users/reset.
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.ResetPassword: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}
	logCtx := logrus.WithField("email", req.Email)

	if err := h.userService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		logCtx.WithError(err).Warn("Handler.ResetPassword: Reset failed")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.ResetPassword: Password reset")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Password reset successfully"})
}
