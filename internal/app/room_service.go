package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

const (
	duelMaxPlayers = 2
	duelMaxRounds  = 5
)

// RoomService manages duel room stubs: joinable six-digit codes with no
// gameplay behind them yet.
type RoomService struct {
	users UserStore
	rooms RoomStore
	rnd   *rand.Rand
	clock func() time.Time
}

func NewRoomService(users UserStore, rooms RoomStore) *RoomService {
	return &RoomService{
		users: users,
		rooms: rooms,
		rnd:   rand.New(rand.NewSource(time.Now().UnixNano())),
		clock: time.Now,
	}
}

// Create opens a new waiting room with a unique six-digit join code.
func (s *RoomService) Create(ctx context.Context, userID string) (domain.GameRoom, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.GameRoom{}, err
	}

	var code string
	for attempt := 0; ; attempt++ {
		code = fmt.Sprintf("%06d", 100000+s.rnd.Intn(900000))
		_, err := s.rooms.GetByCode(ctx, code)
		if errors.Is(err, domain.ErrRoomNotFound) {
			break
		}
		if err != nil {
			return domain.GameRoom{}, err
		}
		if attempt >= 20 {
			return domain.GameRoom{}, fmt.Errorf("could not allocate a free room code")
		}
	}

	room := domain.GameRoom{
		ID:         uuid.NewString(),
		Code:       code,
		Status:     domain.RoomWaiting,
		MaxPlayers: duelMaxPlayers,
		MaxRounds:  duelMaxRounds,
		CreatedAt:  s.clock(),
	}
	if err := s.rooms.Save(ctx, room); err != nil {
		return domain.GameRoom{}, err
	}
	return room, nil
}

// Join looks up a waiting room by code. Rooms past WAITING reject joins.
func (s *RoomService) Join(ctx context.Context, code, userID string) (domain.GameRoom, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.GameRoom{}, err
	}
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return domain.GameRoom{}, err
	}
	if room.Status != domain.RoomWaiting {
		return domain.GameRoom{}, domain.ErrRoomUnavailable
	}
	return room, nil
}

// Status returns the room by id.
func (s *RoomService) Status(ctx context.Context, roomID string) (domain.GameRoom, error) {
	return s.rooms.Get(ctx, roomID)
}
