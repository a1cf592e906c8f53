package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// GormLobbyRepository is the GORM implementation of repository.LobbyRepository.
type GormLobbyRepository struct {
	db *gorm.DB
}

func NewGormLobbyRepository(db *gorm.DB) *GormLobbyRepository {
	if db == nil {
		panic("database connection cannot be nil for GormLobbyRepository")
	}
	return &GormLobbyRepository{db: db}
}

// InTx runs fn against a repository bound to one transaction. GORM commits
// on nil and rolls back on error or panic.
func (r *GormLobbyRepository) InTx(ctx context.Context, fn func(repository.LobbyRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormLobbyRepository{db: tx})
	})
}

func (r *GormLobbyRepository) GetRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("players.id ASC") }).
		First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: get room %d: %w", roomID, err)
	}
	return &room, nil
}

func (r *GormLobbyRepository) GetAllRooms(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Preload("Players", func(db *gorm.DB) *gorm.DB { return db.Order("players.id ASC") }).
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormLobbyRepository) CreateRoom(ctx context.Context, data repository.RoomCreate) (*domain.Room, error) {
	room := domain.Room{
		Title:      data.Title,
		MaxPlayers: data.MaxPlayers,
		IsPrivate:  data.IsPrivate,
		Password:   data.Password,
		GameName:   domain.GameNamePending,
		AFKTime:    time.Now(),
	}
	// A password implies a private room regardless of the submitted flag.
	if data.Password != nil && *data.Password != "" {
		room.IsPrivate = true
	}
	if err := r.db.WithContext(ctx).Create(&room).Error; err != nil {
		if mapped := translateDuplicate(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("gorm: create room %q: %w", data.Title, err)
	}
	return &room, nil
}

func (r *GormLobbyRepository) DeleteRoom(ctx context.Context, roomID uint) error {
	// Players and blacklist rows go with the room. Deletes are issued
	// explicitly so the cascade does not depend on how the schema was
	// migrated.
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.Player{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.BlacklistEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Room{}, roomID).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete room %d: %w", roomID, err)
	}
	return nil
}

func (r *GormLobbyRepository) CreatePlayer(ctx context.Context, userID, roomID uint, isHost bool) (*domain.Player, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("gorm: load user %d for player: %w", userID, err)
	}
	player := domain.Player{
		Name:          user.Username,
		UserID:        &user.ID,
		RoomID:        roomID,
		IsHost:        isHost,
		NicknameColor: user.NicknameColor,
		Avatar:        user.Avatar,
		IsVIP:         user.IsVIP,
	}
	if err := r.db.WithContext(ctx).Create(&player).Error; err != nil {
		return nil, fmt.Errorf("gorm: create player for user %d in room %d: %w", userID, roomID, err)
	}
	// Seating a player flips the user's occupancy flag as a side effect.
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).
		Update("in_room", true).Error; err != nil {
		return nil, fmt.Errorf("gorm: mark user %d in room: %w", userID, err)
	}
	return &player, nil
}

func (r *GormLobbyRepository) GetPlayer(ctx context.Context, userID uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("gorm: get player for user %d: %w", userID, err)
	}
	return &player, nil
}

func (r *GormLobbyRepository) FindPlayer(ctx context.Context, userID uint) (*domain.Player, error) {
	player, err := r.GetPlayer(ctx, userID)
	if errors.Is(err, repository.ErrPlayerNotFound) {
		return nil, nil
	}
	return player, err
}

func (r *GormLobbyRepository) GetPlayerByID(ctx context.Context, playerID uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).First(&player, playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPlayerNotFound
		}
		return nil, fmt.Errorf("gorm: get player %d: %w", playerID, err)
	}
	return &player, nil
}

func (r *GormLobbyRepository) GetPlayers(ctx context.Context, roomID uint) ([]domain.Player, error) {
	var players []domain.Player
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).Order("id ASC").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list players of room %d: %w", roomID, err)
	}
	return players, nil
}

func (r *GormLobbyRepository) GetActivePlayers(ctx context.Context, roomID uint) ([]domain.Player, error) {
	var players []domain.Player
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND is_disconnect = ?", roomID, false).
		Order("id ASC").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: list active players of room %d: %w", roomID, err)
	}
	return players, nil
}

func (r *GormLobbyRepository) DeletePlayer(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.Player{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete player of user %d: %w", userID, err)
	}
	return nil
}

func (r *GormLobbyRepository) DeletePlayerByID(ctx context.Context, playerID uint) error {
	if err := r.db.WithContext(ctx).Delete(&domain.Player{}, playerID).Error; err != nil {
		return fmt.Errorf("gorm: delete player %d: %w", playerID, err)
	}
	return nil
}

func (r *GormLobbyRepository) DeletePlayerExceptRoom(ctx context.Context, userID, roomID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id <> ?", userID, roomID).
		Delete(&domain.Player{}).Error
	if err != nil {
		return fmt.Errorf("gorm: delete stale players of user %d: %w", userID, err)
	}
	return nil
}

func (r *GormLobbyRepository) SetDisconnected(ctx context.Context, userID uint, disconnected bool) error {
	err := r.db.WithContext(ctx).Model(&domain.Player{}).
		Where("user_id = ?", userID).Update("is_disconnect", disconnected).Error
	if err != nil {
		return fmt.Errorf("gorm: set disconnect flag of user %d: %w", userID, err)
	}
	return nil
}

func (r *GormLobbyRepository) DisconnectCheck(ctx context.Context, userID, roomID uint) (bool, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return true, nil
		}
		return true, fmt.Errorf("gorm: disconnect check for user %d in room %d: %w", userID, roomID, err)
	}
	return player.IsDisconnect, nil
}

func (r *GormLobbyRepository) ChangeHost(ctx context.Context, playerID uint, isHost bool) error {
	err := r.db.WithContext(ctx).Model(&domain.Player{}).
		Where("id = ?", playerID).Update("is_host", isHost).Error
	if err != nil {
		return fmt.Errorf("gorm: change host flag of player %d: %w", playerID, err)
	}
	return nil
}

func (r *GormLobbyRepository) IsHost(ctx context.Context, userID uint) (*domain.Player, error) {
	var player domain.Player
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_host = ?", userID, true).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("gorm: host lookup for user %d: %w", userID, err)
	}
	return &player, nil
}

func (r *GormLobbyRepository) IsBlacklisted(ctx context.Context, roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.BlacklistEntry{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: blacklist check for user %d in room %d: %w", userID, roomID, err)
	}
	return count > 0, nil
}

func (r *GormLobbyRepository) AddBlacklist(ctx context.Context, roomID, userID uint) error {
	entry := domain.BlacklistEntry{RoomID: roomID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("gorm: add blacklist entry for user %d in room %d: %w", userID, roomID, err)
	}
	return nil
}

func (r *GormLobbyRepository) SetUserInRoom(ctx context.Context, userID uint, inRoom bool) error {
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).Update("in_room", inRoom).Error
	if err != nil {
		return fmt.Errorf("gorm: set in_room flag of user %d: %w", userID, err)
	}
	return nil
}

func (r *GormLobbyRepository) ChangePrivate(ctx context.Context, roomID uint, isPrivate bool) error {
	return r.updateRoom(ctx, roomID, map[string]any{"is_private": isPrivate})
}

func (r *GormLobbyRepository) ChangePassword(ctx context.Context, roomID uint, password string) error {
	return r.updateRoom(ctx, roomID, map[string]any{"password": password})
}

func (r *GormLobbyRepository) ChangeMaxPlayers(ctx context.Context, roomID uint, maxPlayers int) error {
	return r.updateRoom(ctx, roomID, map[string]any{"max_players": maxPlayers})
}

func (r *GormLobbyRepository) SetGameStarted(ctx context.Context, roomID uint, started bool) error {
	return r.updateRoom(ctx, roomID, map[string]any{"started": started})
}

func (r *GormLobbyRepository) TouchActivity(ctx context.Context, roomID uint) error {
	return r.updateRoom(ctx, roomID, map[string]any{"afk_time": time.Now()})
}

func (r *GormLobbyRepository) updateRoom(ctx context.Context, roomID uint, values map[string]any) error {
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ?", roomID).Updates(values).Error
	if err != nil {
		return fmt.Errorf("gorm: update room %d: %w", roomID, err)
	}
	return nil
}

func (r *GormLobbyRepository) FindStaleRooms(ctx context.Context, cutoff time.Time) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("afk_time < ? AND started = ?", cutoff, false).Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find stale rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormLobbyRepository) CreateGameHistory(ctx context.Context, gameName string, gameID uint, players string) error {
	history := domain.GameHistory{GameName: gameName, GameID: gameID, Players: players}
	if err := r.db.WithContext(ctx).Create(&history).Error; err != nil {
		return fmt.Errorf("gorm: create game history for game %d: %w", gameID, err)
	}
	return nil
}

func (r *GormLobbyRepository) GetAchievement(ctx context.Context, name string) (*domain.Achievement, error) {
	var achievement domain.Achievement
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&achievement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAchievementNotFound
		}
		return nil, fmt.Errorf("gorm: get achievement %q: %w", name, err)
	}
	return &achievement, nil
}

func (r *GormLobbyRepository) CreateGameAchievement(ctx context.Context, userID, achievementID uint, gameName string) error {
	grant := domain.GameAchievement{UserID: userID, AchievementID: achievementID, GameName: gameName}
	if err := r.db.WithContext(ctx).Create(&grant).Error; err != nil {
		return fmt.Errorf("gorm: grant achievement %d to user %d: %w", achievementID, userID, err)
	}
	return nil
}

func (r *GormLobbyRepository) CreateGameStatistics(ctx context.Context, userID uint, gameName string) (*domain.UserGameStatistics, error) {
	stats := domain.UserGameStatistics{UserID: userID, GameName: gameName}
	if err := r.db.WithContext(ctx).Create(&stats).Error; err != nil {
		return nil, fmt.Errorf("gorm: create game statistics for user %d: %w", userID, err)
	}
	return &stats, nil
}

func (r *GormLobbyRepository) GetGameStatistics(ctx context.Context, userID uint) (*domain.UserGameStatistics, error) {
	var stats domain.UserGameStatistics
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("gorm: get game statistics of user %d: %w", userID, err)
	}
	return &stats, nil
}

func (r *GormLobbyRepository) UpdateGameStatistics(ctx context.Context, statisticID uint, wonGames, totalGames int) error {
	err := r.db.WithContext(ctx).Model(&domain.UserGameStatistics{}).
		Where("id = ?", statisticID).
		Updates(map[string]any{"won_games": wonGames, "total_games": totalGames}).Error
	if err != nil {
		return fmt.Errorf("gorm: update game statistics %d: %w", statisticID, err)
	}
	return nil
}
