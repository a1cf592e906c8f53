package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lobby-backend/internal/domain"
)

// StateRepository is a mock of repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) PublishRoomEvent(ctx context.Context, event domain.RoomEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *StateRepository) SubscribeRoom(ctx context.Context, roomID uint) (<-chan domain.RoomEvent, func(), error) {
	args := m.Called(ctx, roomID)
	var events <-chan domain.RoomEvent
	if args.Get(0) != nil {
		events = args.Get(0).(<-chan domain.RoomEvent)
	}
	var cancel func()
	if args.Get(1) != nil {
		cancel = args.Get(1).(func())
	}
	return events, cancel, args.Error(2)
}

func (m *StateRepository) SaveRoomState(ctx context.Context, roomID uint, state any) error {
	args := m.Called(ctx, roomID, state)
	return args.Error(0)
}

func (m *StateRepository) GetRoomState(ctx context.Context, roomID uint, dest any) (bool, error) {
	args := m.Called(ctx, roomID, dest)
	return args.Bool(0), args.Error(1)
}

func (m *StateRepository) ClearRoomState(ctx context.Context, roomID uint) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}
