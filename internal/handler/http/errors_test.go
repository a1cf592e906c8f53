package http_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	handler "lobby-backend/internal/handler/http"
	"lobby-backend/internal/service"
)

func statusFor(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	handler.HandleServiceError(c, err)
	return w.Code
}

func TestHandleServiceError_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"room not found", service.ErrRoomNotFound, http.StatusNotFound},
		{"player not found", service.ErrPlayerNotFound, http.StatusNotFound},
		{"title taken", service.ErrTitleTaken, http.StatusBadRequest},
		{"username taken", service.ErrUsernameTaken, http.StatusUnprocessableEntity},
		{"email taken", service.ErrEmailTaken, http.StatusUnprocessableEntity},
		{"user in room", service.ErrUserInRoom, http.StatusBadRequest},
		{"no slot", service.ErrNoSlot, http.StatusBadRequest},
		{"wrong room password", service.ErrInvalidRoomPassword, http.StatusBadRequest},
		{"blacklisted", service.ErrBlacklisted, http.StatusBadRequest},
		{"capacity below occupancy", service.ErrInvalidMaxPlayers, http.StatusBadRequest},
		{"not admin", service.ErrNotAdmin, http.StatusForbidden},
		{"not host", service.ErrNotHost, http.StatusForbidden},
		{"auth failed", service.ErrAuthenticationFailed, http.StatusUnauthorized},
		{"internal", service.ErrInternalServer, http.StatusInternalServerError},
		{"unclassified", errors.New("driver: bad connection"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, statusFor(t, tc.err))
		})
	}
}

func TestHandleServiceError_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	handler.HandleServiceError(c, errors.New("dsn user:pass@tcp(db:3306)"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dsn")
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}
