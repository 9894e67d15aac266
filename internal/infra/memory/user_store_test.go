package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

func seedUsers(t *testing.T) *UserStore {
	t.Helper()
	store := NewUserStore()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	seed := []domain.User{
		{ID: "u1", Nickname: "Alice", HighScore: 100, CreatedAt: base},
		{ID: "u2", Nickname: "Bob", HighScore: 80, CreatedAt: base.Add(time.Minute)},
		{ID: "u3", Nickname: "Carol", HighScore: 80, CreatedAt: base.Add(2 * time.Minute)},
		{ID: "u4", Nickname: "Dave", HighScore: 50, CreatedAt: base.Add(3 * time.Minute)},
	}
	for _, u := range seed {
		if err := store.Create(context.Background(), u); err != nil {
			t.Fatalf("create %s: %v", u.ID, err)
		}
	}
	return store
}

func TestUserStoreNicknameUniqueness(t *testing.T) {
	store := seedUsers(t)
	err := store.Create(context.Background(), domain.User{ID: "u9", Nickname: "Alice"})
	if !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
}

func TestUserStoreTopOrderingIsDeterministic(t *testing.T) {
	store := seedUsers(t)
	top, err := store.TopByHighScore(context.Background(), 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"u1", "u2", "u3", "u4"}
	for i, id := range want {
		if top[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, top[i].ID)
		}
	}
}

func TestUserStoreAboveBelowAreStrict(t *testing.T) {
	store := seedUsers(t)
	ctx := context.Background()

	above, err := store.Above(ctx, 80, 10)
	if err != nil {
		t.Fatalf("above: %v", err)
	}
	if len(above) != 1 || above[0].ID != "u1" {
		t.Fatalf("expected only u1 strictly above 80, got %+v", above)
	}

	below, err := store.Below(ctx, 80, 10)
	if err != nil {
		t.Fatalf("below: %v", err)
	}
	if len(below) != 1 || below[0].ID != "u4" {
		t.Fatalf("expected only u4 strictly below 80, got %+v", below)
	}

	count, err := store.CountHigher(ctx, 80)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 user higher than 80, got %d", count)
	}
}

func TestUserStoreUpdateNickname(t *testing.T) {
	store := seedUsers(t)
	ctx := context.Background()

	if _, err := store.UpdateNickname(ctx, "u4", "Alice"); !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
	user, err := store.UpdateNickname(ctx, "u4", "David")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if user.Nickname != "David" {
		t.Fatalf("nickname not updated: %+v", user)
	}
	if _, err := store.GetByNickname(ctx, "Dave"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("old nickname must be released, got %v", err)
	}
}
