package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
	"lobby-backend/internal/repository/mocks"
	"lobby-backend/internal/service"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }
func uintPtr(u uint) *uint { return &u }

// --- CreateRoom ---

func TestLobbyService_CreateRoom_Success(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	user := &domain.User{ID: 1, Username: "alice", InRoom: false}
	mockUserRepo.On("FindByID", ctx, uint(1)).Return(user, nil).Once()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("CreateRoom", ctx, repository.RoomCreate{
		Title:      "friday night",
		MaxPlayers: 4,
	}).Return(&domain.Room{ID: 7, Title: "friday night", MaxPlayers: 4}, nil).Once()
	mockLobbyRepo.On("CreatePlayer", ctx, uint(1), uint(7), true).
		Return(&domain.Player{ID: 11, Name: "alice", RoomID: 7, IsHost: true}, nil).Once()

	// Act
	room, err := lobbyService.CreateRoom(ctx, service.CreateRoomInput{Title: "friday night", MaxPlayers: 4}, 1)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(7), room.ID)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)

	mockLobbyRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestLobbyService_CreateRoom_TitleTaken(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("CreateRoom", ctx, mock.AnythingOfType("repository.RoomCreate")).
		Return(nil, repository.ErrTitleTaken).Once()

	// Act
	_, err := lobbyService.CreateRoom(ctx, service.CreateRoomInput{Title: "taken", MaxPlayers: 4}, 1)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrTitleTaken))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_CreateRoom_UserInRoom_NoSeatWritten(t *testing.T) {
	// A user already occupying a room must not end up hosting a second one,
	// and the transaction rollback discards the freshly inserted room row.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(2)).Return(&domain.User{ID: 2, InRoom: true}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("CreateRoom", ctx, mock.AnythingOfType("repository.RoomCreate")).
		Return(&domain.Room{ID: 8, Title: "second"}, nil).Once()

	// Act
	_, err := lobbyService.CreateRoom(ctx, service.CreateRoomInput{Title: "second", MaxPlayers: 4}, 2)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUserInRoom))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- JoinLobby ---

func TestLobbyService_JoinLobby_Success_LastSlot(t *testing.T) {
	// Arrange: room with capacity 3 and 2 seated players; the join takes the
	// last slot.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	mockState := new(mocks.StateRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, mockState)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(3)).Return(&domain.User{ID: 3, Username: "carol"}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(3), uint(5)).Return(nil).Once()

	twoSeated := &domain.Room{ID: 5, MaxPlayers: 3, Players: []domain.Player{{ID: 1}, {ID: 2}}}
	fullRoom := &domain.Room{ID: 5, MaxPlayers: 3, Players: []domain.Player{{ID: 1}, {ID: 2}, {ID: 12, Name: "carol"}}}
	mockLobbyRepo.On("GetRoom", ctx, uint(5)).Return(twoSeated, nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(3)).Return(nil, nil).Once()
	mockLobbyRepo.On("IsBlacklisted", ctx, uint(5), uint(3)).Return(false, nil).Once()
	mockLobbyRepo.On("CreatePlayer", ctx, uint(3), uint(5), false).
		Return(&domain.Player{ID: 12, Name: "carol", RoomID: 5}, nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(3), true).Return(nil).Once()
	mockLobbyRepo.On("GetRoom", ctx, uint(5)).Return(fullRoom, nil).Once()

	mockState.On("PublishRoomEvent", ctx, mock.MatchedBy(func(e domain.RoomEvent) bool {
		return e.Type == domain.EventPlayerJoined && e.RoomID == 5
	})).Return(nil).Once()

	// Act
	room, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 5, 3)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Len(t, room.Players, 3)

	mockLobbyRepo.AssertExpectations(t)
	mockState.AssertExpectations(t)
}

func TestLobbyService_JoinLobby_RoomFull(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(4)).Return(&domain.User{ID: 4}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(4), uint(5)).Return(nil).Once()
	full := &domain.Room{ID: 5, MaxPlayers: 3, Players: []domain.Player{{ID: 1}, {ID: 2}, {ID: 3}}}
	mockLobbyRepo.On("GetRoom", ctx, uint(5)).Return(full, nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(4)).Return(nil, nil).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 5, 4)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNoSlot))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_JoinLobby_DisconnectedSeatsHoldCapacity(t *testing.T) {
	// A seat stays reserved while its player is disconnected; a room whose
	// seats are all held by disconnected players is still full.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(5)).Return(&domain.User{ID: 5}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(5), uint(5)).Return(nil).Once()
	ghosts := &domain.Room{ID: 5, MaxPlayers: 2, Players: []domain.Player{
		{ID: 1, IsDisconnect: true}, {ID: 2, IsDisconnect: true},
	}}
	mockLobbyRepo.On("GetRoom", ctx, uint(5)).Return(ghosts, nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(5)).Return(nil, nil).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 5, 5)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNoSlot))
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_JoinLobby_Blacklisted_NoSeatWritten(t *testing.T) {
	// A banned join must leave no player row behind.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(6)).Return(&domain.User{ID: 6}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(6), uint(5)).Return(nil).Once()
	mockLobbyRepo.On("GetRoom", ctx, uint(5)).
		Return(&domain.Room{ID: 5, MaxPlayers: 8}, nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(6)).Return(nil, nil).Once()
	mockLobbyRepo.On("IsBlacklisted", ctx, uint(5), uint(6)).Return(true, nil).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 5, 6)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrBlacklisted))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockLobbyRepo.AssertNotCalled(t, "SetUserInRoom", mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_JoinLobby_WrongPassword(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(7)).Return(&domain.User{ID: 7}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(7), uint(9)).Return(nil).Once()
	locked := &domain.Room{ID: 9, MaxPlayers: 8, IsPrivate: true, Password: strPtr("sekrit")}
	mockLobbyRepo.On("GetRoom", ctx, uint(9)).Return(locked, nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(7)).Return(nil, nil).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{Password: strPtr("wrong")}, 9, 7)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidRoomPassword))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_JoinLobby_UserAlreadyInRoom(t *testing.T) {
	// Arrange: the occupancy flag alone rejects the join.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(8)).Return(&domain.User{ID: 8, InRoom: true}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(8), uint(5)).Return(nil).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 5, 8)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrUserInRoom))

	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "GetRoom", mock.Anything, mock.Anything)
}

func TestLobbyService_JoinLobby_RoomNotFound(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(9)).Return(&domain.User{ID: 9}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("DeletePlayerExceptRoom", ctx, uint(9), uint(404)).Return(nil).Once()
	mockLobbyRepo.On("GetRoom", ctx, uint(404)).Return(nil, repository.ErrRoomNotFound).Once()

	// Act
	_, err := lobbyService.JoinLobby(ctx, service.JoinRoomInput{}, 404, 9)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrRoomNotFound))
	mockLobbyRepo.AssertExpectations(t)
}

// --- DeleteLobby ---

func TestLobbyService_DeleteLobby_AdminSuccess(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, IsAdmin: true}, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	seated := []domain.Player{
		{ID: 31, UserID: uintPtr(4), RoomID: 5, IsHost: true},
		{ID: 32, UserID: uintPtr(6), RoomID: 5},
	}
	mockLobbyRepo.On("GetPlayers", ctx, uint(5)).Return(seated, nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(4), false).Return(nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(6), false).Return(nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(5)).Return(nil).Once()

	// Act
	err := lobbyService.DeleteLobby(ctx, 5, 1)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
}

func TestLobbyService_DeleteLobby_NotAdmin(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockUserRepo.On("FindByID", ctx, uint(2)).Return(&domain.User{ID: 2, IsAdmin: false}, nil).Once()

	// Act
	err := lobbyService.DeleteLobby(ctx, 5, 2)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotAdmin))
	mockLobbyRepo.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything)
}

// --- LeaveLobby ---

func TestLobbyService_LeaveLobby_HostPromotion(t *testing.T) {
	// Arrange: the departing host hands the flag to the longest-seated
	// remaining player.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("GetPlayer", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("DeletePlayer", ctx, uint(1)).Return(nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(1), false).Return(nil).Once()
	mockLobbyRepo.On("GetPlayers", ctx, uint(5)).
		Return([]domain.Player{{ID: 11}, {ID: 12}}, nil).Once()
	mockLobbyRepo.On("ChangeHost", ctx, uint(11), true).Return(nil).Once()

	// Act
	err := lobbyService.LeaveLobby(ctx, 5, 1)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything)
}

func TestLobbyService_LeaveLobby_LastPlayerDeletesRoom(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("GetPlayer", ctx, uint(2)).
		Return(&domain.Player{ID: 20, RoomID: 6, IsHost: true}, nil).Once()
	mockLobbyRepo.On("DeletePlayer", ctx, uint(2)).Return(nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(2), false).Return(nil).Once()
	mockLobbyRepo.On("GetPlayers", ctx, uint(6)).Return([]domain.Player{}, nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(6)).Return(nil).Once()

	// Act
	err := lobbyService.LeaveLobby(ctx, 6, 2)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
	mockLobbyRepo.AssertNotCalled(t, "ChangeHost", mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_LeaveLobby_NoSeatInRoom(t *testing.T) {
	// Arrange: the player's seat is in a different room.
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("GetPlayer", ctx, uint(3)).
		Return(&domain.Player{ID: 30, RoomID: 99}, nil).Once()

	// Act
	err := lobbyService.LeaveLobby(ctx, 6, 3)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPlayerNotFound))
	mockLobbyRepo.AssertNotCalled(t, "DeletePlayer", mock.Anything, mock.Anything)
}

// --- BanPlayer ---

func TestLobbyService_BanPlayer_Success_EjectsSeatedTarget(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("AddBlacklist", ctx, uint(5), uint(4)).Return(nil).Once()
	mockLobbyRepo.On("FindPlayer", ctx, uint(4)).
		Return(&domain.Player{ID: 14, RoomID: 5}, nil).Once()
	mockLobbyRepo.On("DeletePlayerByID", ctx, uint(14)).Return(nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(4), false).Return(nil).Once()

	// Act
	err := lobbyService.BanPlayer(ctx, 5, 1, 4)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

func TestLobbyService_BanPlayer_NotHost(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(2)).Return(nil, nil).Once()

	// Act
	err := lobbyService.BanPlayer(ctx, 5, 2, 4)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotHost))
	mockLobbyRepo.AssertNotCalled(t, "AddBlacklist", mock.Anything, mock.Anything, mock.Anything)
}

// --- TransferHost ---

func TestLobbyService_TransferHost_Success(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("GetPlayerByID", ctx, uint(11)).
		Return(&domain.Player{ID: 11, RoomID: 5}, nil).Once()
	mockLobbyRepo.On("ChangeHost", ctx, uint(10), false).Return(nil).Once()
	mockLobbyRepo.On("ChangeHost", ctx, uint(11), true).Return(nil).Once()

	// Act
	err := lobbyService.TransferHost(ctx, 5, 1, 11)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

func TestLobbyService_TransferHost_TargetInDifferentRoom(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("GetPlayerByID", ctx, uint(42)).
		Return(&domain.Player{ID: 42, RoomID: 77}, nil).Once()

	// Act
	err := lobbyService.TransferHost(ctx, 5, 1, 42)

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrPlayerNotFound))
	mockLobbyRepo.AssertNotCalled(t, "ChangeHost", mock.Anything, mock.Anything, mock.Anything)
}

// --- SetGameStarted ---

func TestLobbyService_SetGameStarted_TouchesActivity(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("SetGameStarted", ctx, uint(5), true).Return(nil).Once()
	mockLobbyRepo.On("TouchActivity", ctx, uint(5)).Return(nil).Once()

	// Act
	err := lobbyService.SetGameStarted(ctx, 5, 1, true)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

// --- UpdateRoomSettings ---

func TestLobbyService_UpdateRoomSettings_PasswordForcesPrivate(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("ChangePassword", ctx, uint(5), "hunter2").Return(nil).Once()
	mockLobbyRepo.On("ChangePrivate", ctx, uint(5), true).Return(nil).Once()
	mockLobbyRepo.On("TouchActivity", ctx, uint(5)).Return(nil).Once()

	// Act
	err := lobbyService.UpdateRoomSettings(ctx, 5, 1, service.UpdateRoomInput{Password: strPtr("hunter2")})

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

func TestLobbyService_UpdateRoomSettings_CapacityBelowOccupancy(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(1)).
		Return(&domain.Player{ID: 10, RoomID: 5, IsHost: true}, nil).Once()
	mockLobbyRepo.On("GetActivePlayers", ctx, uint(5)).
		Return([]domain.Player{{ID: 10}, {ID: 11}, {ID: 12}, {ID: 13}}, nil).Once()

	// Act
	err := lobbyService.UpdateRoomSettings(ctx, 5, 1, service.UpdateRoomInput{MaxPlayers: intPtr(3)})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrInvalidMaxPlayers))
	mockLobbyRepo.AssertNotCalled(t, "ChangeMaxPlayers", mock.Anything, mock.Anything, mock.Anything)
}

func TestLobbyService_UpdateRoomSettings_NotHost(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("IsHost", ctx, uint(2)).Return(nil, nil).Once()

	// Act
	err := lobbyService.UpdateRoomSettings(ctx, 5, 2, service.UpdateRoomInput{MaxPlayers: intPtr(8)})

	// Assert
	require.Error(t, err)
	assert.True(t, errors.Is(err, service.ErrNotHost))
	mockLobbyRepo.AssertNotCalled(t, "ChangeMaxPlayers", mock.Anything, mock.Anything, mock.Anything)
}

// --- Reconnect ---

func TestLobbyService_Reconnect_LowersFlag(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("DisconnectCheck", ctx, uint(1), uint(5)).Return(true, nil).Once()
	mockLobbyRepo.On("SetDisconnected", ctx, uint(1), false).Return(nil).Once()

	// Act
	err := lobbyService.Reconnect(ctx, 5, 1)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

func TestLobbyService_Reconnect_AlreadyPresent(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockUserRepo := new(mocks.UserRepository)
	lobbyService := service.NewLobbyService(mockLobbyRepo, mockUserRepo, nil)
	ctx := context.Background()

	mockLobbyRepo.On("DisconnectCheck", ctx, uint(1), uint(5)).Return(false, nil).Once()

	// Act
	err := lobbyService.Reconnect(ctx, 5, 1)

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertNotCalled(t, "SetDisconnected", mock.Anything, mock.Anything, mock.Anything)
}
