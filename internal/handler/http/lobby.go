package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/service"
)

// LobbyHandler exposes the room-membership operations over HTTP.
type LobbyHandler struct {
	lobbyService *service.LobbyService
}

func NewLobbyHandler(lobbyService *service.LobbyService) *LobbyHandler {
	return &LobbyHandler{lobbyService: lobbyService}
}

// PlayerResponse is the wire shape of a seated player.
type PlayerResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	UserID        *uint   `json:"user_id,omitempty"`
	IsHost        bool    `json:"is_host"`
	IsDisconnect  bool    `json:"is_disconnect"`
	NicknameColor string  `json:"nickname_color"`
	Avatar        *string `json:"avatar,omitempty"`
	IsVIP         bool    `json:"is_vip"`
}

// RoomResponse is the wire shape of a room. The password never leaves the
// server; only the has_password flag does.
type RoomResponse struct {
	ID          uint             `json:"id"`
	Title       string           `json:"title"`
	IsPrivate   bool             `json:"is_private"`
	HasPassword bool             `json:"has_password"`
	GameName    string           `json:"game_name"`
	MaxPlayers  int              `json:"max_players"`
	Started     bool             `json:"started"`
	Players     []PlayerResponse `json:"players"`
}

func toPlayerResponse(p domain.Player) PlayerResponse {
	return PlayerResponse{
		ID:            p.ID,
		Name:          p.Name,
		UserID:        p.UserID,
		IsHost:        p.IsHost,
		IsDisconnect:  p.IsDisconnect,
		NicknameColor: p.NicknameColor,
		Avatar:        p.Avatar,
		IsVIP:         p.IsVIP,
	}
}

func toRoomResponse(r *domain.Room) RoomResponse {
	players := make([]PlayerResponse, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, toPlayerResponse(p))
	}
	return RoomResponse{
		ID:          r.ID,
		Title:       r.Title,
		IsPrivate:   r.IsPrivate,
		HasPassword: r.HasPassword(),
		GameName:    r.GameName,
		MaxPlayers:  r.MaxPlayers,
		Started:     r.Started,
		Players:     players,
	}
}

func roomIDParam(c *gin.Context) (uint, bool) {
	idStr := c.Param("roomId")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		logrus.Warnf("Handler: Invalid room ID format: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid room ID format")
		return 0, false
	}
	return uint(id), true
}

// ListRooms handles GET /api/rooms.
func (h *LobbyHandler) ListRooms(c *gin.Context) {
	rooms, err := h.lobbyService.GetAllRooms(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	out := make([]RoomResponse, 0, len(rooms))
	for i := range rooms {
		out = append(out, toRoomResponse(&rooms[i]))
	}
	SuccessResponse(c, http.StatusOK, out)
}

// GetRoom handles GET /api/rooms/:roomId.
func (h *LobbyHandler) GetRoom(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	room, err := h.lobbyService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, toRoomResponse(room))
}

// CreateRoomRequest is the body of POST /api/rooms.
type CreateRoomRequest struct {
	Title      string  `json:"title" binding:"required,min=1,max=100"`
	MaxPlayers int     `json:"max_players" binding:"required,gte=3,lte=12"`
	IsPrivate  bool    `json:"is_private"`
	Password   *string `json:"password" binding:"omitempty,max=50"`
}

// CreateRoom handles POST /api/rooms. The creator becomes the host.
func (h *LobbyHandler) CreateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.CreateRoom: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	room, err := h.lobbyService.CreateRoom(c.Request.Context(), service.CreateRoomInput{
		Title:      req.Title,
		MaxPlayers: req.MaxPlayers,
		IsPrivate:  req.IsPrivate,
		Password:   req.Password,
	}, userID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.CreateRoom: Failed to create room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("room_id", room.ID).Info("Handler.CreateRoom: Room created successfully")
	SuccessResponse(c, http.StatusCreated, toRoomResponse(room))
}

// UpdateRoomRequest is the body of PATCH /api/rooms/:roomId. All fields are
// optional; absent fields are left unchanged.
type UpdateRoomRequest struct {
	IsPrivate  *bool   `json:"is_private"`
	Password   *string `json:"password" binding:"omitempty,max=50"`
	MaxPlayers *int    `json:"max_players" binding:"omitempty,gte=3,lte=12"`
}

// UpdateRoom handles PATCH /api/rooms/:roomId. Host only.
func (h *LobbyHandler) UpdateRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.UpdateRoom: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	err := h.lobbyService.UpdateRoomSettings(c.Request.Context(), roomID, userID, service.UpdateRoomInput{
		IsPrivate:  req.IsPrivate,
		Password:   req.Password,
		MaxPlayers: req.MaxPlayers,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.UpdateRoom: Failed to update room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.UpdateRoom: Room settings updated")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Room settings updated"})
}

// JoinRoomRequest is the body of POST /api/rooms/:roomId/join.
type JoinRoomRequest struct {
	Password *string `json:"password" binding:"omitempty,max=50"`
}

// JoinRoom handles POST /api/rooms/:roomId/join.
func (h *LobbyHandler) JoinRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input")
		return
	}

	room, err := h.lobbyService.JoinLobby(c.Request.Context(), service.JoinRoomInput{Password: req.Password}, roomID, userID)
	if err != nil {
		logCtx.WithError(err).Warn("Handler.JoinRoom: Failed to join room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.JoinRoom: User joined room successfully")
	SuccessResponse(c, http.StatusOK, toRoomResponse(room))
}

// LeaveRoom handles POST /api/rooms/:roomId/leave.
func (h *LobbyHandler) LeaveRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	if err := h.lobbyService.LeaveLobby(c.Request.Context(), roomID, userID); err != nil {
		logCtx.WithError(err).Warn("Handler.LeaveRoom: Failed to leave room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.LeaveRoom: User left room")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Left room successfully"})
}

// DeleteRoom handles DELETE /api/rooms/:roomId. Admin only.
func (h *LobbyHandler) DeleteRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	if err := h.lobbyService.DeleteLobby(c.Request.Context(), roomID, userID); err != nil {
		logCtx.WithError(err).Warn("Handler.DeleteRoom: Failed to delete room via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.Info("Handler.DeleteRoom: Room deleted")
	c.Status(http.StatusNoContent)
}

// BanPlayerRequest is the body of POST /api/rooms/:roomId/ban.
type BanPlayerRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// BanPlayer handles POST /api/rooms/:roomId/ban. Host only.
func (h *LobbyHandler) BanPlayer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req BanPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.BanPlayer: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: user_id is required")
		return
	}

	if err := h.lobbyService.BanPlayer(c.Request.Context(), roomID, userID, req.UserID); err != nil {
		logCtx.WithError(err).Warn("Handler.BanPlayer: Failed to ban player via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("target_user_id", req.UserID).Info("Handler.BanPlayer: Player banned")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Player banned"})
}

// TransferHostRequest is the body of POST /api/rooms/:roomId/host.
type TransferHostRequest struct {
	PlayerID uint `json:"player_id" binding:"required"`
}

// TransferHost handles POST /api/rooms/:roomId/host. Host only.
func (h *LobbyHandler) TransferHost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req TransferHostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.TransferHost: Invalid input format")
		ErrorResponse(c, http.StatusBadRequest, "Invalid input: player_id is required")
		return
	}

	if err := h.lobbyService.TransferHost(c.Request.Context(), roomID, userID, req.PlayerID); err != nil {
		logCtx.WithError(err).Warn("Handler.TransferHost: Failed to transfer host via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("player_id", req.PlayerID).Info("Handler.TransferHost: Host transferred")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Host transferred"})
}

// StartGameRequest is the body of POST /api/rooms/:roomId/start.
type StartGameRequest struct {
	Started bool `json:"started"`
}

// StartGame handles POST /api/rooms/:roomId/start. Host only.
func (h *LobbyHandler) StartGame(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	req := StartGameRequest{Started: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logCtx.WithError(err).Warn("Handler.StartGame: Invalid input format")
			ErrorResponse(c, http.StatusBadRequest, "Invalid input")
			return
		}
	}

	if err := h.lobbyService.SetGameStarted(c.Request.Context(), roomID, userID, req.Started); err != nil {
		logCtx.WithError(err).Warn("Handler.StartGame: Failed to change started flag via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("started", req.Started).Info("Handler.StartGame: Started flag changed")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Game state updated", "started": req.Started})
}

// GameResultRequest is the body of POST /api/rooms/:roomId/result.
type GameResultRequest struct {
	GameName        string         `json:"game_name" binding:"required,min=1,max=100"`
	GameID          uint           `json:"game_id"`
	Scores          map[string]int `json:"scores"`
	Participants    []uint         `json:"participants" binding:"required,min=1"`
	Winners         []uint         `json:"winners"`
	AchievementName string         `json:"achievement_name"`
}

// RecordResult handles POST /api/rooms/:roomId/result. Host only.
func (h *LobbyHandler) RecordResult(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	var req GameResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logCtx.WithError(err).Warn("Handler.RecordResult: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	isHost, err := h.lobbyService.IsRoomHost(c.Request.Context(), roomID, userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	if !isHost {
		HandleServiceError(c, service.ErrNotHost)
		return
	}

	err = h.lobbyService.RecordGameResult(c.Request.Context(), service.GameResultInput{
		RoomID:          roomID,
		GameName:        req.GameName,
		GameID:          req.GameID,
		Scores:          req.Scores,
		Participants:    req.Participants,
		Winners:         req.Winners,
		AchievementName: req.AchievementName,
	})
	if err != nil {
		logCtx.WithError(err).Warn("Handler.RecordResult: Failed to record result via service")
		HandleServiceError(c, err)
		return
	}

	logCtx.WithField("game_name", req.GameName).Info("Handler.RecordResult: Game result recorded")
	SuccessResponse(c, http.StatusOK, gin.H{"message": "Game result recorded"})
}
