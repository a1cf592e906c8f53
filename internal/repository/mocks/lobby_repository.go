// Package mocks provides testify mocks of the repository interfaces for
// service-level tests.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// LobbyRepository is a mock of repository.LobbyRepository. InTx runs the
// callback against the mock itself when the configured return is nil, so a
// test sets expectations for the inner calls on the same object.
type LobbyRepository struct {
	mock.Mock
}

func (m *LobbyRepository) InTx(ctx context.Context, fn func(repository.LobbyRepository) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *LobbyRepository) GetRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	var room *domain.Room
	if args.Get(0) != nil {
		room = args.Get(0).(*domain.Room)
	}
	return room, args.Error(1)
}

func (m *LobbyRepository) GetAllRooms(ctx context.Context) ([]domain.Room, error) {
	args := m.Called(ctx)
	var rooms []domain.Room
	if args.Get(0) != nil {
		rooms = args.Get(0).([]domain.Room)
	}
	return rooms, args.Error(1)
}

func (m *LobbyRepository) CreateRoom(ctx context.Context, data repository.RoomCreate) (*domain.Room, error) {
	args := m.Called(ctx, data)
	var room *domain.Room
	if args.Get(0) != nil {
		room = args.Get(0).(*domain.Room)
	}
	return room, args.Error(1)
}

func (m *LobbyRepository) DeleteRoom(ctx context.Context, roomID uint) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *LobbyRepository) CreatePlayer(ctx context.Context, userID, roomID uint, isHost bool) (*domain.Player, error) {
	args := m.Called(ctx, userID, roomID, isHost)
	var player *domain.Player
	if args.Get(0) != nil {
		player = args.Get(0).(*domain.Player)
	}
	return player, args.Error(1)
}

func (m *LobbyRepository) GetPlayer(ctx context.Context, userID uint) (*domain.Player, error) {
	args := m.Called(ctx, userID)
	var player *domain.Player
	if args.Get(0) != nil {
		player = args.Get(0).(*domain.Player)
	}
	return player, args.Error(1)
}

func (m *LobbyRepository) FindPlayer(ctx context.Context, userID uint) (*domain.Player, error) {
	args := m.Called(ctx, userID)
	var player *domain.Player
	if args.Get(0) != nil {
		player = args.Get(0).(*domain.Player)
	}
	return player, args.Error(1)
}

func (m *LobbyRepository) GetPlayerByID(ctx context.Context, playerID uint) (*domain.Player, error) {
	args := m.Called(ctx, playerID)
	var player *domain.Player
	if args.Get(0) != nil {
		player = args.Get(0).(*domain.Player)
	}
	return player, args.Error(1)
}

func (m *LobbyRepository) GetPlayers(ctx context.Context, roomID uint) ([]domain.Player, error) {
	args := m.Called(ctx, roomID)
	var players []domain.Player
	if args.Get(0) != nil {
		players = args.Get(0).([]domain.Player)
	}
	return players, args.Error(1)
}

func (m *LobbyRepository) GetActivePlayers(ctx context.Context, roomID uint) ([]domain.Player, error) {
	args := m.Called(ctx, roomID)
	var players []domain.Player
	if args.Get(0) != nil {
		players = args.Get(0).([]domain.Player)
	}
	return players, args.Error(1)
}

func (m *LobbyRepository) DeletePlayer(ctx context.Context, userID uint) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *LobbyRepository) DeletePlayerByID(ctx context.Context, playerID uint) error {
	args := m.Called(ctx, playerID)
	return args.Error(0)
}

func (m *LobbyRepository) DeletePlayerExceptRoom(ctx context.Context, userID, roomID uint) error {
	args := m.Called(ctx, userID, roomID)
	return args.Error(0)
}

func (m *LobbyRepository) SetDisconnected(ctx context.Context, userID uint, disconnected bool) error {
	args := m.Called(ctx, userID, disconnected)
	return args.Error(0)
}

func (m *LobbyRepository) DisconnectCheck(ctx context.Context, userID, roomID uint) (bool, error) {
	args := m.Called(ctx, userID, roomID)
	return args.Bool(0), args.Error(1)
}

func (m *LobbyRepository) ChangeHost(ctx context.Context, playerID uint, isHost bool) error {
	args := m.Called(ctx, playerID, isHost)
	return args.Error(0)
}

func (m *LobbyRepository) IsHost(ctx context.Context, userID uint) (*domain.Player, error) {
	args := m.Called(ctx, userID)
	var player *domain.Player
	if args.Get(0) != nil {
		player = args.Get(0).(*domain.Player)
	}
	return player, args.Error(1)
}

func (m *LobbyRepository) IsBlacklisted(ctx context.Context, roomID, userID uint) (bool, error) {
	args := m.Called(ctx, roomID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *LobbyRepository) AddBlacklist(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *LobbyRepository) SetUserInRoom(ctx context.Context, userID uint, inRoom bool) error {
	args := m.Called(ctx, userID, inRoom)
	return args.Error(0)
}

func (m *LobbyRepository) ChangePrivate(ctx context.Context, roomID uint, isPrivate bool) error {
	args := m.Called(ctx, roomID, isPrivate)
	return args.Error(0)
}

func (m *LobbyRepository) ChangePassword(ctx context.Context, roomID uint, password string) error {
	args := m.Called(ctx, roomID, password)
	return args.Error(0)
}

func (m *LobbyRepository) ChangeMaxPlayers(ctx context.Context, roomID uint, maxPlayers int) error {
	args := m.Called(ctx, roomID, maxPlayers)
	return args.Error(0)
}

func (m *LobbyRepository) SetGameStarted(ctx context.Context, roomID uint, started bool) error {
	args := m.Called(ctx, roomID, started)
	return args.Error(0)
}

func (m *LobbyRepository) TouchActivity(ctx context.Context, roomID uint) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *LobbyRepository) FindStaleRooms(ctx context.Context, cutoff time.Time) ([]domain.Room, error) {
	args := m.Called(ctx, cutoff)
	var rooms []domain.Room
	if args.Get(0) != nil {
		rooms = args.Get(0).([]domain.Room)
	}
	return rooms, args.Error(1)
}

func (m *LobbyRepository) CreateGameHistory(ctx context.Context, gameName string, gameID uint, players string) error {
	args := m.Called(ctx, gameName, gameID, players)
	return args.Error(0)
}

func (m *LobbyRepository) GetAchievement(ctx context.Context, name string) (*domain.Achievement, error) {
	args := m.Called(ctx, name)
	var achievement *domain.Achievement
	if args.Get(0) != nil {
		achievement = args.Get(0).(*domain.Achievement)
	}
	return achievement, args.Error(1)
}

func (m *LobbyRepository) CreateGameAchievement(ctx context.Context, userID, achievementID uint, gameName string) error {
	args := m.Called(ctx, userID, achievementID, gameName)
	return args.Error(0)
}

func (m *LobbyRepository) CreateGameStatistics(ctx context.Context, userID uint, gameName string) (*domain.UserGameStatistics, error) {
	args := m.Called(ctx, userID, gameName)
	var stats *domain.UserGameStatistics
	if args.Get(0) != nil {
		stats = args.Get(0).(*domain.UserGameStatistics)
	}
	return stats, args.Error(1)
}

func (m *LobbyRepository) GetGameStatistics(ctx context.Context, userID uint) (*domain.UserGameStatistics, error) {
	args := m.Called(ctx, userID)
	var stats *domain.UserGameStatistics
	if args.Get(0) != nil {
		stats = args.Get(0).(*domain.UserGameStatistics)
	}
	return stats, args.Error(1)
}

func (m *LobbyRepository) UpdateGameStatistics(ctx context.Context, statisticID uint, wonGames, totalGames int) error {
	args := m.Called(ctx, statisticID, wonGames, totalGames)
	return args.Error(0)
}
