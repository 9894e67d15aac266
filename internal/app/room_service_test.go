package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/app"
	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/infra/memory"
)

func newRoomFixture(t *testing.T) (*app.RoomService, *memory.RoomStore) {
	t.Helper()
	users := memory.NewUserStore()
	rooms := memory.NewRoomStore()
	for _, id := range []string{"u1", "u2"} {
		if err := users.Create(context.Background(), domain.User{ID: id, Nickname: "p-" + id, CreatedAt: time.Now()}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}
	return app.NewRoomService(users, rooms), rooms
}

func TestCreateRoomAllocatesSixDigitCode(t *testing.T) {
	service, _ := newRoomFixture(t)

	room, err := service.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if len(room.Code) != 6 {
		t.Fatalf("expected six-digit code, got %q", room.Code)
	}
	if room.Status != domain.RoomWaiting || room.MaxPlayers != 2 || room.MaxRounds != 5 {
		t.Fatalf("unexpected room defaults %+v", room)
	}
}

func TestCreateRoomRequiresKnownUser(t *testing.T) {
	service, _ := newRoomFixture(t)
	if _, err := service.Create(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestJoinRoomByCode(t *testing.T) {
	service, rooms := newRoomFixture(t)
	ctx := context.Background()

	room, err := service.Create(ctx, "u1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}

	joined, err := service.Join(ctx, room.Code, "u2")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != room.ID {
		t.Fatalf("joined wrong room %+v", joined)
	}

	if _, err := service.Join(ctx, "000000", "u2"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound for unknown code, got %v", err)
	}

	room.Status = domain.RoomPlaying
	if err := rooms.Save(ctx, room); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := service.Join(ctx, room.Code, "u2"); !errors.Is(err, domain.ErrRoomUnavailable) {
		t.Fatalf("expected ErrRoomUnavailable once playing, got %v", err)
	}
}
