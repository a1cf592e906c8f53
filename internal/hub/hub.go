package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lobby-backend/internal/domain"
	"lobby-backend/internal/repository"
	"lobby-backend/internal/service"
)

// WebSocket timing constants shared by hub and client.
const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// HubMessage is the envelope passed on the Hub's internal channel.
type HubMessage struct {
	Type    string // "register", "unregister", "state"
	RoomID  uint
	UserID  uint
	Client  *Client
	RawData []byte // only for "state"
}

// roomSub tracks the Redis subscription feeding one room's clients.
type roomSub struct {
	events <-chan domain.RoomEvent
	cancel func()
}

// Hub maintains the active client set per room and fans room events out to
// every connected client. Events originate from the Redis channel so that
// every instance of the server sees them, not just the one that produced them.
type Hub struct {
	messageChan chan HubMessage

	// map[roomID]map[*Client]bool
	rooms   map[uint]map[*Client]bool
	subs    map[uint]*roomSub
	roomsMu sync.RWMutex

	lobbyService *service.LobbyService
	state        repository.StateRepository
}

func NewHub(lobbyService *service.LobbyService, state repository.StateRepository) *Hub {
	if lobbyService == nil {
		panic("LobbyService cannot be nil for Hub")
	}
	if state == nil {
		panic("StateRepository cannot be nil for Hub")
	}
	return &Hub{
		messageChan:  make(chan HubMessage, 512),
		rooms:        make(map[uint]map[*Client]bool),
		subs:         make(map[uint]*roomSub),
		lobbyService: lobbyService,
		state:        state,
	}
}

// Run starts the Hub's main event loop. Call it from its own goroutine.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case "register":
			h.registerClient(msg.Client)
		case "unregister":
			h.unregisterClient(msg.Client)
		case "state":
			go h.handleStateUpdate(msg)
		default:
			log.Warnf("Hub: Received unknown message type: %s from user %d in room %d", msg.Type, msg.UserID, msg.RoomID)
		}
	}
	log.Info("Hub is shutting down...")
}

func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to register a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.UserID(),
		"action":  "registerClient",
	})

	h.roomsMu.Lock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*Client]bool)
		logCtx.Info("Client list created for new room")
	}
	h.rooms[roomID][client] = true
	needSub := h.subs[roomID] == nil
	h.roomsMu.Unlock()
	logCtx.Info("Client registered to Hub")

	if needSub {
		h.startRoomSubscription(roomID)
	}

	go h.sendInitialState(client)
}

// startRoomSubscription opens the Redis event feed for a room and relays it
// to the room's clients until the subscription is cancelled.
func (h *Hub) startRoomSubscription(roomID uint) {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "action": "startRoomSubscription"})

	events, cancel, err := h.state.SubscribeRoom(context.Background(), roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to subscribe to room events")
		return
	}

	h.roomsMu.Lock()
	if h.subs[roomID] != nil {
		// Lost the race against another register; keep the first subscription.
		h.roomsMu.Unlock()
		cancel()
		return
	}
	h.subs[roomID] = &roomSub{events: events, cancel: cancel}
	h.roomsMu.Unlock()
	logCtx.Info("Room event subscription started")

	go func() {
		for event := range events {
			payload, err := json.Marshal(event)
			if err != nil {
				logCtx.WithError(err).Error("Failed to marshal room event for broadcast")
				continue
			}
			h.broadcast(roomID, payload, nil)
		}
		logCtx.Info("Room event subscription closed")
	}()
}

func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: Attempted to unregister a nil client")
		return
	}
	roomID := client.RoomID()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"user_id": client.UserID(),
		"action":  "unregisterClient",
	})

	h.roomsMu.Lock()
	if roomClients, roomExists := h.rooms[roomID]; roomExists {
		if _, clientExists := roomClients[client]; clientExists {
			delete(roomClients, client)
			logCtx.Debug("Client removed from room map")

			select {
			case <-client.send:
				logCtx.Warn("Client send channel already closed or has data during unregister")
			default:
				close(client.send)
				logCtx.Info("Client send channel closed")
			}

			if len(roomClients) == 0 {
				delete(h.rooms, roomID)
				if sub := h.subs[roomID]; sub != nil {
					sub.cancel()
					delete(h.subs, roomID)
				}
				logCtx.Info("Room empty, removed from Hub and subscription cancelled")
			}
		} else {
			logCtx.Warn("Client not found in room during unregister")
		}
	} else {
		logCtx.Warn("Room not found during client unregister")
	}
	h.roomsMu.Unlock()
	logCtx.Info("Client unregistered from Hub")

	// Mark the player disconnected so the roster reflects the dropped socket.
	go func() {
		ctx := context.Background()
		if err := h.lobbyService.SetDisconnected(ctx, client.UserID(), true); err != nil {
			logCtx.WithError(err).Debug("Failed to mark player disconnected on unregister")
		}
	}()
}

// sendInitialState pushes the last stored game state to a newly connected
// client, if the room has one.
func (h *Hub) sendInitialState(client *Client) {
	if client == nil {
		return
	}
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   client.RoomID(),
		"user_id":   client.UserID(),
		"operation": "sendInitialState",
	})

	ctx := context.Background()
	var state json.RawMessage
	found, err := h.state.GetRoomState(ctx, client.RoomID(), &state)
	if err != nil {
		logCtx.WithError(err).Error("Failed to get room state")
		errorMsg := `{"type": "error", "message": "Failed to load room state"}`
		select {
		case client.send <- []byte(errorMsg):
		default:
		}
		return
	}
	if !found {
		logCtx.Debug("No stored state for room, nothing to send")
		return
	}

	stateMsg := map[string]interface{}{
		"type":  "state",
		"state": state,
	}
	stateBytes, err := json.Marshal(stateMsg)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal state message")
		return
	}

	select {
	case client.send <- stateBytes:
		logCtx.Info("Initial state sent to client channel")
	default:
		logCtx.Warn("Client send channel full when trying to send state, message dropped")
	}
}

// handleStateUpdate stores a game state snapshot pushed by the room host and
// relays it to the other clients.
func (h *Hub) handleStateUpdate(msg HubMessage) {
	ctx := context.Background()
	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":   msg.RoomID,
		"user_id":   msg.UserID,
		"operation": "handleStateUpdate",
	})
	logCtx.Debugf("Processing state update (data size: %d)", len(msg.RawData))

	if !json.Valid(msg.RawData) {
		logCtx.Warn("State update rejected: payload is not valid JSON")
		return
	}

	isHost, err := h.lobbyService.IsRoomHost(ctx, msg.RoomID, msg.UserID)
	if err != nil {
		logCtx.WithError(err).Error("Error checking host for state update")
		return
	}
	if !isHost {
		logCtx.Warn("State update rejected: sender is not the room host")
		return
	}

	if err := h.state.SaveRoomState(ctx, msg.RoomID, json.RawMessage(msg.RawData)); err != nil {
		logCtx.WithError(err).Error("Failed to save room state")
		return
	}

	stateMsg := map[string]interface{}{
		"type":  "state",
		"state": json.RawMessage(msg.RawData),
	}
	stateBytes, err := json.Marshal(stateMsg)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal state update for broadcast")
		return
	}
	h.broadcast(msg.RoomID, stateBytes, msg.Client)
}

// broadcast sends a message to every client in the room, excluding sender.
func (h *Hub) broadcast(roomID uint, message []byte, sender *Client) {
	h.roomsMu.RLock()
	roomClients, ok := h.rooms[roomID]
	clientsToSend := make([]*Client, 0, len(roomClients))
	if ok {
		for client := range roomClients {
			if client != sender {
				clientsToSend = append(clientsToSend, client)
			}
		}
	}
	h.roomsMu.RUnlock()

	if !ok || len(clientsToSend) == 0 {
		return
	}

	logCtx := logrus.WithFields(logrus.Fields{
		"room_id":         roomID,
		"message_size":    len(message),
		"recipient_count": len(clientsToSend),
	})
	logCtx.Debug("Broadcasting message to clients")

	for _, client := range clientsToSend {
		select {
		case client.send <- message:
		default:
			logCtx.WithField("receiver_user_id", client.UserID()).Warn("Client send channel full during broadcast, skipping this client")
		}
	}
}

// QueueMessage puts a message on the Hub's processing queue without blocking.
// Returns false when the queue is full.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithFields(logrus.Fields{
			"message_type": msg.Type,
			"room_id":      msg.RoomID,
			"user_id":      msg.UserID,
		}).Warn("Hub message channel full, dropping message")
		return false
	}
}
