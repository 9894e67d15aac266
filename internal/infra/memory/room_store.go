package memory

import (
	"context"
	"sync"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// RoomStore is an in-memory implementation of app.RoomStore.
type RoomStore struct {
	mu     sync.RWMutex
	rooms  map[string]domain.GameRoom
	byCode map[string]string
}

func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms:  make(map[string]domain.GameRoom),
		byCode: make(map[string]string),
	}
}

func (s *RoomStore) Save(_ context.Context, room domain.GameRoom) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room
	s.byCode[room.Code] = room.ID
	return nil
}

func (s *RoomStore) Get(_ context.Context, id string) (domain.GameRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return domain.GameRoom{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomStore) GetByCode(_ context.Context, code string) (domain.GameRoom, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byCode[code]
	if !ok {
		return domain.GameRoom{}, domain.ErrRoomNotFound
	}
	return s.rooms[id], nil
}
