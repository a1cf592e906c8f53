package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// CreateRoomInput carries the already-validated fields of a room creation
// request.
type CreateRoomInput struct {
	Title      string
	MaxPlayers int
	IsPrivate  bool
	Password   *string
}

// JoinRoomInput carries the optional password of a join request.
type JoinRoomInput struct {
	Password *string
}

// UpdateRoomInput carries the optional room settings a host may change.
type UpdateRoomInput struct {
	IsPrivate  *bool
	Password   *string
	MaxPlayers *int
}

// GameResultInput records the outcome of one finished game in a room.
type GameResultInput struct {
	RoomID          uint
	GameName        string
	GameID          uint
	Scores          map[string]int // player name -> score
	Participants    []uint         // user ids
	Winners         []uint         // subset of Participants
	AchievementName string         // granted to winners; empty to skip
}

// LobbyService orchestrates the room-membership state machine. Every public
// operation runs inside one repository transaction: either all of its writes
// land or none do.
type LobbyService struct {
	lobbyRepo repository.LobbyRepository
	userRepo  repository.UserRepository
	state     repository.StateRepository
}

func NewLobbyService(lobbyRepo repository.LobbyRepository, userRepo repository.UserRepository, state repository.StateRepository) *LobbyService {
	if lobbyRepo == nil || userRepo == nil {
		panic("LobbyService requires lobby and user repositories")
	}
	return &LobbyService{lobbyRepo: lobbyRepo, userRepo: userRepo, state: state}
}

// GetAllRooms lists every room with its players.
func (s *LobbyService) GetAllRooms(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.lobbyRepo.GetAllRooms(ctx)
	if err != nil {
		logrus.WithError(err).Error("LobbyService.GetAllRooms: repository error")
		return nil, ErrInternalServer
	}
	return rooms, nil
}

// GetRoom loads one room with its players.
func (s *LobbyService) GetRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.lobbyRepo.GetRoom(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		logrus.WithError(err).WithField("room_id", roomID).Error("LobbyService.GetRoom: repository error")
		return nil, ErrInternalServer
	}
	return room, nil
}

// VerifyMembership confirms that userID holds a seat in roomID. Used by the
// WebSocket handler before upgrading a connection.
func (s *LobbyService) VerifyMembership(ctx context.Context, roomID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": userID})

	if _, err := s.lobbyRepo.GetRoom(ctx, roomID); err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return ErrRoomNotFound
		}
		logCtx.WithError(err).Error("LobbyService.VerifyMembership: room lookup failed")
		return ErrInternalServer
	}
	player, err := s.lobbyRepo.FindPlayer(ctx, userID)
	if err != nil {
		logCtx.WithError(err).Error("LobbyService.VerifyMembership: player lookup failed")
		return ErrInternalServer
	}
	if player == nil || player.RoomID != roomID {
		return ErrPlayerNotFound
	}
	return nil
}

// CreateRoom creates a room on behalf of userID and seats them as host. A
// duplicate title fails with ErrTitleTaken; a user already occupying a room
// fails with ErrUserInRoom and the room row is rolled back.
func (s *LobbyService) CreateRoom(ctx context.Context, input CreateRoomInput, userID uint) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "title": input.Title})

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("LobbyService.CreateRoom: user not found")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("LobbyService.CreateRoom: user lookup failed")
		return nil, ErrInternalServer
	}

	var room *domain.Room
	err = s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		room, err = r.CreateRoom(ctx, repository.RoomCreate{
			Title:      input.Title,
			MaxPlayers: input.MaxPlayers,
			IsPrivate:  input.IsPrivate,
			Password:   input.Password,
		})
		if err != nil {
			return err
		}
		if user.InRoom {
			return ErrUserInRoom
		}
		host, err := r.CreatePlayer(ctx, userID, room.ID, true)
		if err != nil {
			return err
		}
		room.Players = []domain.Player{*host}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserInRoom):
			logCtx.Warn("LobbyService.CreateRoom: user already in a room")
			return nil, ErrUserInRoom
		case errors.Is(err, repository.ErrTitleTaken):
			logCtx.Warn("LobbyService.CreateRoom: title already taken")
			return nil, ErrTitleTaken
		case errors.Is(err, repository.ErrUserNotFound):
			logCtx.Warn("LobbyService.CreateRoom: user vanished during create")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("LobbyService.CreateRoom: transaction failed")
		return nil, ErrInternalServer
	}

	logCtx.WithField("room_id", room.ID).Info("Room created")
	return room, nil
}

// JoinLobby seats userID in roomID after the eligibility gates: occupancy
// flag, capacity, password and blacklist. Capacity is checked before the
// membership row is written; a join is rejected once the seat count has
// reached MaxPlayers. Disconnected players keep their seat and still count
// against capacity, otherwise a reconnect could push the room over it. Any
// stale player row the user holds elsewhere is removed, so a user occupies
// at most one room.
func (s *LobbyService) JoinLobby(ctx context.Context, input JoinRoomInput, roomID, userID uint) (*domain.Room, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("LobbyService.JoinLobby: user not found")
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("LobbyService.JoinLobby: user lookup failed")
		return nil, ErrInternalServer
	}

	var room *domain.Room
	err = s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		if err := r.DeletePlayerExceptRoom(ctx, userID, roomID); err != nil {
			return err
		}
		if user.InRoom {
			return ErrUserInRoom
		}
		room, err = r.GetRoom(ctx, roomID)
		if err != nil {
			return err
		}
		existing, err := r.FindPlayer(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			if len(room.Players) >= room.MaxPlayers {
				return ErrNoSlot
			}
		}
		if room.HasPassword() {
			if input.Password == nil || *input.Password != *room.Password {
				return ErrInvalidRoomPassword
			}
		}
		banned, err := r.IsBlacklisted(ctx, roomID, userID)
		if err != nil {
			return err
		}
		if banned {
			return ErrBlacklisted
		}
		if existing == nil {
			if _, err := r.CreatePlayer(ctx, userID, roomID, false); err != nil {
				return err
			}
		}
		if err := r.SetUserInRoom(ctx, userID, true); err != nil {
			return err
		}
		room, err = r.GetRoom(ctx, roomID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUserInRoom),
			errors.Is(err, ErrNoSlot),
			errors.Is(err, ErrInvalidRoomPassword),
			errors.Is(err, ErrBlacklisted):
			logCtx.WithError(err).Warn("LobbyService.JoinLobby: join rejected")
			return nil, err
		case errors.Is(err, repository.ErrRoomNotFound):
			logCtx.Warn("LobbyService.JoinLobby: room not found")
			return nil, ErrRoomNotFound
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		logCtx.WithError(err).Error("LobbyService.JoinLobby: transaction failed")
		return nil, ErrInternalServer
	}

	s.publishEvent(ctx, domain.RoomEvent{
		Type:    domain.EventPlayerJoined,
		RoomID:  roomID,
		Payload: map[string]any{"user_id": userID},
	})
	logCtx.Info("User joined room")
	return room, nil
}

// DeleteLobby removes a room and, via cascade, its players and blacklist.
// Seated users get their occupancy flag lowered in the same transaction so
// they can create or join again afterwards. Any admin may delete any room;
// there is no ownership check.
func (s *LobbyService) DeleteLobby(ctx context.Context, roomID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			logCtx.Warn("LobbyService.DeleteLobby: user not found")
			return ErrUserNotFound
		}
		logCtx.WithError(err).Error("LobbyService.DeleteLobby: user lookup failed")
		return ErrInternalServer
	}
	if !user.IsAdmin {
		logCtx.Warn("LobbyService.DeleteLobby: rejected, not an admin")
		return ErrNotAdmin
	}
	err = s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		players, err := r.GetPlayers(ctx, roomID)
		if err != nil {
			return err
		}
		for _, player := range players {
			if player.UserID == nil {
				continue
			}
			if err := r.SetUserInRoom(ctx, *player.UserID, false); err != nil {
				return err
			}
		}
		return r.DeleteRoom(ctx, roomID)
	})
	if err != nil {
		logCtx.WithError(err).Error("LobbyService.DeleteLobby: delete failed")
		return ErrInternalServer
	}

	s.publishEvent(ctx, domain.RoomEvent{Type: domain.EventRoomDeleted, RoomID: roomID})
	s.clearState(ctx, roomID)
	logCtx.Info("Room deleted by admin")
	return nil
}

// LeaveLobby removes the user's seat. The last player leaving deletes the
// room; a departing host hands the flag to the longest-seated remaining
// player.
func (s *LobbyService) LeaveLobby(ctx context.Context, roomID, userID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "room_id": roomID})

	roomDeleted := false
	var newHostID *uint
	err := s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		player, err := r.GetPlayer(ctx, userID)
		if err != nil {
			return err
		}
		if player.RoomID != roomID {
			return repository.ErrPlayerNotFound
		}
		if err := r.DeletePlayer(ctx, userID); err != nil {
			return err
		}
		if err := r.SetUserInRoom(ctx, userID, false); err != nil {
			return err
		}
		remaining, err := r.GetPlayers(ctx, roomID)
		if err != nil {
			return err
		}
		if len(remaining) == 0 {
			roomDeleted = true
			return r.DeleteRoom(ctx, roomID)
		}
		if player.IsHost {
			next := remaining[0]
			if err := r.ChangeHost(ctx, next.ID, true); err != nil {
				return err
			}
			newHostID = &next.ID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrPlayerNotFound) {
			logCtx.Warn("LobbyService.LeaveLobby: no seat in this room")
			return ErrPlayerNotFound
		}
		logCtx.WithError(err).Error("LobbyService.LeaveLobby: transaction failed")
		return ErrInternalServer
	}

	if roomDeleted {
		s.publishEvent(ctx, domain.RoomEvent{Type: domain.EventRoomDeleted, RoomID: roomID})
		s.clearState(ctx, roomID)
	} else {
		s.publishEvent(ctx, domain.RoomEvent{
			Type:    domain.EventPlayerLeft,
			RoomID:  roomID,
			Payload: map[string]any{"user_id": userID},
		})
		if newHostID != nil {
			s.publishEvent(ctx, domain.RoomEvent{
				Type:    domain.EventHostChanged,
				RoomID:  roomID,
				Payload: map[string]any{"player_id": *newHostID},
			})
		}
	}
	logCtx.Info("User left room")
	return nil
}

// BanPlayer blacklists targetUserID in the room and ejects them if seated.
// Only the room host may ban. Duplicate bans are tolerated.
func (s *LobbyService) BanPlayer(ctx context.Context, roomID, hostUserID, targetUserID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID, "host_user_id": hostUserID, "target_user_id": targetUserID,
	})

	err := s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		host, err := r.IsHost(ctx, hostUserID)
		if err != nil {
			return err
		}
		if host == nil || host.RoomID != roomID {
			return ErrNotHost
		}
		if err := r.AddBlacklist(ctx, roomID, targetUserID); err != nil {
			return err
		}
		target, err := r.FindPlayer(ctx, targetUserID)
		if err != nil {
			return err
		}
		if target != nil && target.RoomID == roomID {
			if err := r.DeletePlayerByID(ctx, target.ID); err != nil {
				return err
			}
			if err := r.SetUserInRoom(ctx, targetUserID, false); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotHost) {
			logCtx.Warn("LobbyService.BanPlayer: rejected, not the host")
			return ErrNotHost
		}
		logCtx.WithError(err).Error("LobbyService.BanPlayer: transaction failed")
		return ErrInternalServer
	}

	s.publishEvent(ctx, domain.RoomEvent{
		Type:    domain.EventPlayerBanned,
		RoomID:  roomID,
		Payload: map[string]any{"user_id": targetUserID},
	})
	logCtx.Info("Player banned from room")
	return nil
}

// TransferHost hands the host flag from the current host to the player with
// targetPlayerID in the same room. Both flags flip in one transaction so the
// room never ends up with zero or two hosts.
func (s *LobbyService) TransferHost(ctx context.Context, roomID, hostUserID, targetPlayerID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID, "host_user_id": hostUserID, "target_player_id": targetPlayerID,
	})

	err := s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		host, err := r.IsHost(ctx, hostUserID)
		if err != nil {
			return err
		}
		if host == nil || host.RoomID != roomID {
			return ErrNotHost
		}
		target, err := r.GetPlayerByID(ctx, targetPlayerID)
		if err != nil {
			return err
		}
		if target.RoomID != roomID {
			return repository.ErrPlayerNotFound
		}
		if err := r.ChangeHost(ctx, host.ID, false); err != nil {
			return err
		}
		return r.ChangeHost(ctx, target.ID, true)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotHost):
			logCtx.Warn("LobbyService.TransferHost: rejected, not the host")
			return ErrNotHost
		case errors.Is(err, repository.ErrPlayerNotFound):
			logCtx.Warn("LobbyService.TransferHost: target player not in room")
			return ErrPlayerNotFound
		}
		logCtx.WithError(err).Error("LobbyService.TransferHost: transaction failed")
		return ErrInternalServer
	}

	s.publishEvent(ctx, domain.RoomEvent{
		Type:    domain.EventHostChanged,
		RoomID:  roomID,
		Payload: map[string]any{"player_id": targetPlayerID},
	})
	logCtx.Info("Host transferred")
	return nil
}

// SetGameStarted toggles the in-progress flag of the room and bumps its
// activity marker. Host only.
func (s *LobbyService) SetGameStarted(ctx context.Context, roomID, hostUserID uint, started bool) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": hostUserID, "started": started})

	err := s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		host, err := r.IsHost(ctx, hostUserID)
		if err != nil {
			return err
		}
		if host == nil || host.RoomID != roomID {
			return ErrNotHost
		}
		if err := r.SetGameStarted(ctx, roomID, started); err != nil {
			return err
		}
		return r.TouchActivity(ctx, roomID)
	})
	if err != nil {
		if errors.Is(err, ErrNotHost) {
			logCtx.Warn("LobbyService.SetGameStarted: rejected, not the host")
			return ErrNotHost
		}
		logCtx.WithError(err).Error("LobbyService.SetGameStarted: transaction failed")
		return ErrInternalServer
	}

	s.publishEvent(ctx, domain.RoomEvent{
		Type:    domain.EventGameStarted,
		RoomID:  roomID,
		Payload: map[string]any{"started": started},
	})
	logCtx.Info("Game started flag changed")
	return nil
}

// UpdateRoomSettings changes privacy, password or capacity of the room. Host
// only. The capacity can never drop below the number of seated active
// players; a non-empty password forces the room private.
func (s *LobbyService) UpdateRoomSettings(ctx context.Context, roomID, hostUserID uint, input UpdateRoomInput) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "user_id": hostUserID})

	err := s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		host, err := r.IsHost(ctx, hostUserID)
		if err != nil {
			return err
		}
		if host == nil || host.RoomID != roomID {
			return ErrNotHost
		}
		if input.MaxPlayers != nil {
			active, err := r.GetActivePlayers(ctx, roomID)
			if err != nil {
				return err
			}
			if *input.MaxPlayers < len(active) {
				return ErrInvalidMaxPlayers
			}
			if err := r.ChangeMaxPlayers(ctx, roomID, *input.MaxPlayers); err != nil {
				return err
			}
		}
		if input.Password != nil {
			if err := r.ChangePassword(ctx, roomID, *input.Password); err != nil {
				return err
			}
			if *input.Password != "" {
				if err := r.ChangePrivate(ctx, roomID, true); err != nil {
					return err
				}
			}
		}
		if input.IsPrivate != nil && (input.Password == nil || *input.Password == "") {
			if err := r.ChangePrivate(ctx, roomID, *input.IsPrivate); err != nil {
				return err
			}
		}
		return r.TouchActivity(ctx, roomID)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotHost):
			logCtx.Warn("LobbyService.UpdateRoomSettings: rejected, not the host")
			return ErrNotHost
		case errors.Is(err, ErrInvalidMaxPlayers):
			logCtx.Warn("LobbyService.UpdateRoomSettings: capacity below occupancy")
			return ErrInvalidMaxPlayers
		}
		logCtx.WithError(err).Error("LobbyService.UpdateRoomSettings: transaction failed")
		return ErrInternalServer
	}

	logCtx.Info("Room settings updated")
	return nil
}

// IsRoomHost reports whether the user holds the host seat in the room.
func (s *LobbyService) IsRoomHost(ctx context.Context, roomID, userID uint) (bool, error) {
	host, err := s.lobbyRepo.IsHost(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("LobbyService.IsRoomHost: repository error")
		return false, ErrInternalServer
	}
	return host != nil && host.RoomID == roomID, nil
}

// SetDisconnected flips the soft presence flag on the user's player row.
// The seat survives; the player can reconnect with the flag lowered.
func (s *LobbyService) SetDisconnected(ctx context.Context, userID uint, disconnected bool) error {
	if err := s.lobbyRepo.SetDisconnected(ctx, userID, disconnected); err != nil {
		logrus.WithError(err).WithField("user_id", userID).
			Error("LobbyService.SetDisconnected: repository error")
		return ErrInternalServer
	}
	return nil
}

// Reconnect lowers the presence flag for a user reattaching to their seat.
// A seat that was never marked disconnected is left alone.
func (s *LobbyService) Reconnect(ctx context.Context, roomID, userID uint) error {
	disconnected, err := s.lobbyRepo.DisconnectCheck(ctx, userID, roomID)
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"room_id": roomID, "user_id": userID}).
			Error("LobbyService.Reconnect: presence check failed")
		return ErrInternalServer
	}
	if !disconnected {
		return nil
	}
	return s.SetDisconnected(ctx, userID, false)
}

// RecordGameResult appends a history row, updates per-user win/total
// counters and grants the named achievement to the winners.
func (s *LobbyService) RecordGameResult(ctx context.Context, input GameResultInput) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": input.RoomID, "game_name": input.GameName})

	winners := make(map[uint]bool, len(input.Winners))
	for _, id := range input.Winners {
		winners[id] = true
	}
	scores, err := json.Marshal(input.Scores)
	if err != nil {
		logCtx.WithError(err).Error("LobbyService.RecordGameResult: encode scores")
		return ErrInternalServer
	}

	err = s.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
		if err := r.CreateGameHistory(ctx, input.GameName, input.GameID, string(scores)); err != nil {
			return err
		}
		var achievement *domain.Achievement
		if input.AchievementName != "" {
			achievement, err = r.GetAchievement(ctx, input.AchievementName)
			if err != nil {
				return err
			}
		}
		for _, userID := range input.Participants {
			stats, err := r.GetGameStatistics(ctx, userID)
			if err != nil {
				return err
			}
			if stats == nil {
				stats, err = r.CreateGameStatistics(ctx, userID, input.GameName)
				if err != nil {
					return err
				}
			}
			won := stats.WonGames
			if winners[userID] {
				won++
			}
			if err := r.UpdateGameStatistics(ctx, stats.ID, won, stats.TotalGames+1); err != nil {
				return err
			}
			if achievement != nil && winners[userID] {
				if err := r.CreateGameAchievement(ctx, userID, achievement.ID, input.GameName); err != nil {
					return err
				}
			}
		}
		if err := r.SetGameStarted(ctx, input.RoomID, false); err != nil {
			return err
		}
		return r.TouchActivity(ctx, input.RoomID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrAchievementNotFound) {
			logCtx.Warn("LobbyService.RecordGameResult: unknown achievement")
			return ErrAchievementNotFound
		}
		logCtx.WithError(err).Error("LobbyService.RecordGameResult: transaction failed")
		return ErrInternalServer
	}

	logCtx.Info("Game result recorded")
	return nil
}

// publishEvent is best-effort: a stale subscriber list must not fail a
// committed lobby mutation.
func (s *LobbyService) publishEvent(ctx context.Context, event domain.RoomEvent) {
	if s.state == nil {
		return
	}
	if err := s.state.PublishRoomEvent(ctx, event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"room_id": event.RoomID, "event": event.Type,
		}).Warn("LobbyService: publishing room event failed")
	}
}

func (s *LobbyService) clearState(ctx context.Context, roomID uint) {
	if s.state == nil {
		return
	}
	if err := s.state.ClearRoomState(ctx, roomID); err != nil {
		logrus.WithError(err).WithField("room_id", roomID).
			Warn("LobbyService: clearing room state failed")
	}
}
