package websocket

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/hub"
	"lobby-backend/internal/service"
)

// WebSocketHandler upgrades authenticated connections and hands them to the Hub.
type WebSocketHandler struct {
	upgrader     websocket.Upgrader
	hub          *hub.Hub
	lobbyService *service.LobbyService
}

func NewWebSocketHandler(h *hub.Hub, lobbyService *service.LobbyService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if lobbyService == nil {
		panic("LobbyService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict origins once the frontend domain is fixed
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:     upgrader,
		hub:          h,
		lobbyService: lobbyService,
	}
}

// HandleConnection serves GET /ws/room/:roomId. The caller must already hold
// a seat in the room; the bearer token is checked by the auth middleware.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	logCtx := logrus.WithField("handler", "websocket")

	userIDAny, exists := c.Get("user_id")
	if !exists {
		logCtx.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logCtx.Error("WS Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx = logCtx.WithField("user_id", userID)

	roomIDStr := c.Param("roomId")
	roomIDUint64, err := strconv.ParseUint(roomIDStr, 10, 32)
	if err != nil {
		logCtx.WithError(err).Warnf("WS Handler: Invalid room ID format: %s", roomIDStr)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID format"})
		return
	}
	roomID := uint(roomIDUint64)
	logCtx = logCtx.WithField("room_id", roomID)

	if err := h.lobbyService.VerifyMembership(c.Request.Context(), roomID, userID); err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			logCtx.Warn("WS Handler: Room not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, service.ErrPlayerNotFound):
			logCtx.Warn("WS Handler: User is not a member of the room")
			c.JSON(http.StatusForbidden, gin.H{"error": "Not a member of this room"})
		default:
			logCtx.WithError(err).Error("WS Handler: Error validating membership")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate room"})
		}
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn, roomID, userID)

	registerMsg := hub.HubMessage{
		Type:   "register",
		Client: client,
		RoomID: client.RoomID(),
		UserID: client.UserID(),
	}
	if !h.hub.QueueMessage(registerMsg) {
		logCtx.Error("WS Handler: Hub message channel full, failed to register client")
		client.CloseConn()
		return
	}

	// The seat may carry a stale disconnect flag from a previous drop.
	if err := h.lobbyService.Reconnect(c.Request.Context(), roomID, userID); err != nil {
		logCtx.WithError(err).Warn("WS Handler: Failed to clear disconnect flag")
	}

	client.Run()
	logCtx.Info("WS Handler: Client read/write pumps started")
}
