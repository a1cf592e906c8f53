package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository/mocks"
	"lobby-backend/internal/tasks"
	"lobby-backend/internal/worker"
)

func uintPtr(u uint) *uint { return &u }

func TestStaleRoomSweepHandler_DeletesStaleRooms(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	mockState := new(mocks.StateRepository)
	handler := worker.NewStaleRoomSweepHandler(mockLobbyRepo, mockState, time.Hour)
	ctx := context.Background()

	stale := []domain.Room{{ID: 3, Title: "abandoned"}, {ID: 9, Title: "ghost town"}}
	mockLobbyRepo.On("FindStaleRooms", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		// The cutoff must sit roughly one threshold in the past.
		return time.Since(cutoff) > 59*time.Minute && time.Since(cutoff) < 61*time.Minute
	})).Return(stale, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Twice()
	mockLobbyRepo.On("GetPlayers", ctx, uint(3)).Return([]domain.Player{}, nil).Once()
	mockLobbyRepo.On("GetPlayers", ctx, uint(9)).Return([]domain.Player{}, nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(3)).Return(nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(9)).Return(nil).Once()
	mockState.On("PublishRoomEvent", ctx, mock.MatchedBy(func(e domain.RoomEvent) bool {
		return e.Type == domain.EventRoomDeleted
	})).Return(nil).Twice()
	mockState.On("ClearRoomState", ctx, uint(3)).Return(nil).Once()
	mockState.On("ClearRoomState", ctx, uint(9)).Return(nil).Once()

	// Act
	err := handler.ProcessTask(ctx, tasks.NewStaleRoomSweepTask())

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
	mockState.AssertExpectations(t)
}

func TestStaleRoomSweepHandler_FreesSeatedUsers(t *testing.T) {
	// Arrange: the stale room still holds two seated players. Their users'
	// occupancy flags must come down with the room, in the same unit of
	// work, or they can never create or join a room again.
	mockLobbyRepo := new(mocks.LobbyRepository)
	handler := worker.NewStaleRoomSweepHandler(mockLobbyRepo, nil, time.Hour)
	ctx := context.Background()

	stale := []domain.Room{{ID: 4, Title: "fell asleep"}}
	seated := []domain.Player{
		{ID: 21, UserID: uintPtr(7), RoomID: 4, IsHost: true},
		{ID: 22, UserID: uintPtr(8), RoomID: 4, IsDisconnect: true},
	}
	mockLobbyRepo.On("FindStaleRooms", ctx, mock.AnythingOfType("time.Time")).Return(stale, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Once()
	mockLobbyRepo.On("GetPlayers", ctx, uint(4)).Return(seated, nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(7), false).Return(nil).Once()
	mockLobbyRepo.On("SetUserInRoom", ctx, uint(8), false).Return(nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(4)).Return(nil).Once()

	// Act
	err := handler.ProcessTask(ctx, tasks.NewStaleRoomSweepTask())

	// Assert
	require.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}

func TestStaleRoomSweepHandler_NoStaleRooms(t *testing.T) {
	// Arrange
	mockLobbyRepo := new(mocks.LobbyRepository)
	handler := worker.NewStaleRoomSweepHandler(mockLobbyRepo, nil, time.Hour)
	ctx := context.Background()

	mockLobbyRepo.On("FindStaleRooms", ctx, mock.AnythingOfType("time.Time")).
		Return([]domain.Room{}, nil).Once()

	// Act
	err := handler.ProcessTask(ctx, tasks.NewStaleRoomSweepTask())

	// Assert
	assert.NoError(t, err)
	mockLobbyRepo.AssertNotCalled(t, "DeleteRoom", mock.Anything, mock.Anything)
}

func TestStaleRoomSweepHandler_KeepsSweepingAfterDeleteFailure(t *testing.T) {
	// Arrange: the first room fails to delete, the second still goes.
	mockLobbyRepo := new(mocks.LobbyRepository)
	handler := worker.NewStaleRoomSweepHandler(mockLobbyRepo, nil, time.Hour)
	ctx := context.Background()

	stale := []domain.Room{{ID: 3}, {ID: 9}}
	mockLobbyRepo.On("FindStaleRooms", ctx, mock.AnythingOfType("time.Time")).Return(stale, nil).Once()
	mockLobbyRepo.On("InTx", ctx, mock.Anything).Return(nil).Twice()
	mockLobbyRepo.On("GetPlayers", ctx, uint(3)).Return([]domain.Player{}, nil).Once()
	mockLobbyRepo.On("GetPlayers", ctx, uint(9)).Return([]domain.Player{}, nil).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(3)).Return(errors.New("deadlock")).Once()
	mockLobbyRepo.On("DeleteRoom", ctx, uint(9)).Return(nil).Once()

	// Act
	err := handler.ProcessTask(ctx, tasks.NewStaleRoomSweepTask())

	// Assert
	require.NoError(t, err)
	mockLobbyRepo.AssertExpectations(t)
}
