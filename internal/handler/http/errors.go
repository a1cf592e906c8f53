package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/service"
)

// HandleServiceError is the single place service errors turn into HTTP
// statuses, so every handler maps the same error to the same status.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrAchievementNotFound):
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrTitleTaken),
		errors.Is(err, service.ErrUserInRoom),
		errors.Is(err, service.ErrNoSlot),
		errors.Is(err, service.ErrInvalidRoomPassword),
		errors.Is(err, service.ErrBlacklisted),
		errors.Is(err, service.ErrInvalidMaxPlayers),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrUserAlreadyActive):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotAdmin),
		errors.Is(err, service.ErrNotHost),
		errors.Is(err, service.ErrUserNotActive),
		errors.Is(err, service.ErrUserDisabled):
		ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed):
		ErrorResponse(c, http.StatusUnauthorized, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled internal server error")
		ErrorResponse(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// currentUserID pulls the authenticated user id set by the auth middleware.
// On failure it writes the response itself and returns false.
func currentUserID(c *gin.Context) (uint, bool) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("Handler: User ID not found in context, middleware missing or failed?")
		ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
		return 0, false
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("Handler: User ID in context is not uint")
		ErrorResponse(c, http.StatusInternalServerError, "Internal server error processing user ID")
		return 0, false
	}
	return userID, true
}
