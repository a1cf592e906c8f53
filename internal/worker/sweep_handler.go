package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
)

// StaleRoomSweepHandler deletes rooms whose last activity is older than the
// AFK threshold. Each deletion frees the seated users' occupancy flags and
// cascades the room's players and blacklist entries.
type StaleRoomSweepHandler struct {
	lobbyRepo repository.LobbyRepository
	state     repository.StateRepository
	threshold time.Duration
}

func NewStaleRoomSweepHandler(lobbyRepo repository.LobbyRepository, state repository.StateRepository, threshold time.Duration) *StaleRoomSweepHandler {
	if lobbyRepo == nil {
		panic("lobby repository cannot be nil for StaleRoomSweepHandler")
	}
	if threshold <= 0 {
		threshold = time.Hour
	}
	return &StaleRoomSweepHandler{lobbyRepo: lobbyRepo, state: state, threshold: threshold}
}

func (h *StaleRoomSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	cutoff := time.Now().Add(-h.threshold)
	rooms, err := h.lobbyRepo.FindStaleRooms(ctx, cutoff)
	if err != nil {
		return err
	}
	for _, room := range rooms {
		logCtx := logrus.WithFields(logrus.Fields{"room_id": room.ID, "title": room.Title})
		err := h.lobbyRepo.InTx(ctx, func(r repository.LobbyRepository) error {
			// Seated users keep their occupancy flag unless it is lowered
			// here; a flag pointing at a deleted room blocks every future
			// create and join for that user.
			players, err := r.GetPlayers(ctx, room.ID)
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
			return r.DeleteRoom(ctx, room.ID)
		})
		if err != nil {
			// Keep sweeping; the next run retries this room.
			logCtx.WithError(err).Error("Stale sweep: deleting room failed")
			continue
		}
		if h.state != nil {
			event := domain.RoomEvent{Type: domain.EventRoomDeleted, RoomID: room.ID}
			if err := h.state.PublishRoomEvent(ctx, event); err != nil {
				logCtx.WithError(err).Warn("Stale sweep: publishing room_deleted failed")
			}
			if err := h.state.ClearRoomState(ctx, room.ID); err != nil {
				logCtx.WithError(err).Warn("Stale sweep: clearing room state failed")
			}
		}
		logCtx.Info("Stale room removed")
	}
	if len(rooms) > 0 {
		logrus.Infof("Stale sweep removed %d room(s)", len(rooms))
	}
	return nil
}
