package repository

import (
	"context"
	"time"

	"lobby-backend/internal/domain"
)

// RoomCreate carries the already-validated fields for a new room. If Password
// is set the implementation forces IsPrivate to true.
type RoomCreate struct {
	Title      string
	MaxPlayers int
	IsPrivate  bool
	Password   *string
}

// LobbyRepository is the data-access facade over rooms, players, the
// blacklist and game statistics. Storage-level constraint violations are
// translated into the sentinel errors of this package.
type LobbyRepository interface {
	// InTx runs fn against a transaction-scoped repository. The transaction
	// commits when fn returns nil and rolls back on any error.
	InTx(ctx context.Context, fn func(LobbyRepository) error) error

	// GetRoom returns the room with its players eagerly loaded, or
	// ErrRoomNotFound.
	GetRoom(ctx context.Context, roomID uint) (*domain.Room, error)
	// GetAllRooms returns every room with players eagerly loaded.
	GetAllRooms(ctx context.Context) ([]domain.Room, error)
	// CreateRoom inserts a room row; ErrTitleTaken on a duplicate title.
	CreateRoom(ctx context.Context, data RoomCreate) (*domain.Room, error)
	DeleteRoom(ctx context.Context, roomID uint) error

	// CreatePlayer snapshots the user's display attributes into a new player
	// row and marks the user as in-room. ErrUserNotFound if the user is gone.
	CreatePlayer(ctx context.Context, userID, roomID uint, isHost bool) (*domain.Player, error)
	// GetPlayer returns the active player row for a user, or ErrPlayerNotFound.
	GetPlayer(ctx context.Context, userID uint) (*domain.Player, error)
	// FindPlayer is GetPlayer with absence as (nil, nil) instead of an error.
	FindPlayer(ctx context.Context, userID uint) (*domain.Player, error)
	GetPlayerByID(ctx context.Context, playerID uint) (*domain.Player, error)
	// GetPlayers returns all player rows of a room ordered by id ascending.
	GetPlayers(ctx context.Context, roomID uint) ([]domain.Player, error)
	// GetActivePlayers is GetPlayers filtered to is_disconnect = false.
	GetActivePlayers(ctx context.Context, roomID uint) ([]domain.Player, error)
	DeletePlayer(ctx context.Context, userID uint) error
	DeletePlayerByID(ctx context.Context, playerID uint) error
	// DeletePlayerExceptRoom removes any stale player row the user holds in
	// a room other than roomID.
	DeletePlayerExceptRoom(ctx context.Context, userID, roomID uint) error
	SetDisconnected(ctx context.Context, userID uint, disconnected bool) error
	// DisconnectCheck reports the presence flag of the user's player row in
	// the room; a missing row counts as disconnected.
	DisconnectCheck(ctx context.Context, userID, roomID uint) (bool, error)
	ChangeHost(ctx context.Context, playerID uint, isHost bool) error
	// IsHost returns the user's player row if it carries the host flag.
	IsHost(ctx context.Context, userID uint) (*domain.Player, error)

	IsBlacklisted(ctx context.Context, roomID, userID uint) (bool, error)
	AddBlacklist(ctx context.Context, roomID, userID uint) error

	// SetUserInRoom updates the denormalized occupancy flag on the user row.
	SetUserInRoom(ctx context.Context, userID uint, inRoom bool) error

	ChangePrivate(ctx context.Context, roomID uint, isPrivate bool) error
	ChangePassword(ctx context.Context, roomID uint, password string) error
	ChangeMaxPlayers(ctx context.Context, roomID uint, maxPlayers int) error
	SetGameStarted(ctx context.Context, roomID uint, started bool) error
	// TouchActivity bumps the room's last-activity marker to now.
	TouchActivity(ctx context.Context, roomID uint) error
	// FindStaleRooms returns rooms whose last activity predates cutoff.
	FindStaleRooms(ctx context.Context, cutoff time.Time) ([]domain.Room, error)

	CreateGameHistory(ctx context.Context, gameName string, gameID uint, players string) error
	GetAchievement(ctx context.Context, name string) (*domain.Achievement, error)
	CreateGameAchievement(ctx context.Context, userID, achievementID uint, gameName string) error
	CreateGameStatistics(ctx context.Context, userID uint, gameName string) (*domain.UserGameStatistics, error)
	// GetGameStatistics returns (nil, nil) when the user has no row yet.
	GetGameStatistics(ctx context.Context, userID uint) (*domain.UserGameStatistics, error)
	UpdateGameStatistics(ctx context.Context, statisticID uint, wonGames, totalGames int) error
}
