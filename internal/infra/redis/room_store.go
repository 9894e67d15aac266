package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// RoomStore keeps duel rooms in Redis with a TTL so abandoned rooms expire
// on their own. Rooms are stored as JSON under room:{id} with a code index
// at room:code:{code}.
type RoomStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRoomStore(client *redis.Client, ttl time.Duration) *RoomStore {
	return &RoomStore{client: client, ttl: ttl}
}

func (s *RoomStore) Save(ctx context.Context, room domain.GameRoom) error {
	raw, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("marshal room: %w", err)
	}
	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.roomKey(room.ID), raw, s.ttl)
	pipe.Set(ctx, s.codeKey(room.Code), room.ID, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RoomStore) Get(ctx context.Context, id string) (domain.GameRoom, error) {
	raw, err := s.client.Get(ctx, s.roomKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GameRoom{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.GameRoom{}, err
	}
	var room domain.GameRoom
	if err := json.Unmarshal(raw, &room); err != nil {
		return domain.GameRoom{}, fmt.Errorf("unmarshal room: %w", err)
	}
	return room, nil
}

func (s *RoomStore) GetByCode(ctx context.Context, code string) (domain.GameRoom, error) {
	id, err := s.client.Get(ctx, s.codeKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return domain.GameRoom{}, domain.ErrRoomNotFound
	}
	if err != nil {
		return domain.GameRoom{}, err
	}
	return s.Get(ctx, id)
}

func (s *RoomStore) roomKey(id string) string {
	return "room:" + id
}

func (s *RoomStore) codeKey(code string) string {
	return "room:code:" + code
}
