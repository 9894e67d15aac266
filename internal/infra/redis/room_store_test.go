package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

func TestRoomStoreRoundTrip(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)
	ctx := context.Background()

	room := domain.GameRoom{
		ID:         "r1",
		Code:       "123456",
		Status:     domain.RoomWaiting,
		MaxPlayers: 2,
		MaxRounds:  5,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := store.Save(ctx, room); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Get(ctx, "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Code != "123456" || got.Status != domain.RoomWaiting {
		t.Fatalf("unexpected room %+v", got)
	}

	byCode, err := store.GetByCode(ctx, "123456")
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if byCode.ID != "r1" {
		t.Fatalf("code index returned wrong room %+v", byCode)
	}
}

func TestRoomStoreMissReturnsNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, err := store.GetByCode(context.Background(), "000000"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomStoreKeysExpire(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	store := NewRoomStore(newClient(mr), time.Minute)
	room := domain.GameRoom{ID: "r1", Code: "654321", Status: domain.RoomWaiting}
	if err := store.Save(context.Background(), room); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.FastForward(2 * time.Minute)
	if _, err := store.Get(context.Background(), "r1"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected expired room to be gone, got %v", err)
	}
}
