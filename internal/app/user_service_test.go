package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/app"
	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/infra/memory"
)

func newUserFixture() (*app.UserService, *memory.UserStore, *memory.ScoreStore) {
	users := memory.NewUserStore()
	scores := memory.NewScoreStore()
	return app.NewUserService(users, scores), users, scores
}

func TestGetOrCreateRegistersUniqueNickname(t *testing.T) {
	service, _, _ := newUserFixture()
	ctx := context.Background()

	user, err := service.GetOrCreate(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == "" || user.Nickname != "Alice" || user.HighScore != 0 {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := service.GetOrCreate(ctx, "Alice", ""); !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}

	// A known id short-circuits without touching the nickname.
	again, err := service.GetOrCreate(ctx, "ignored", user.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if again.ID != user.ID || again.Nickname != "Alice" {
		t.Fatalf("expected existing user back, got %+v", again)
	}
}

func TestGetOrCreateValidatesNicknameLength(t *testing.T) {
	service, _, _ := newUserFixture()
	ctx := context.Background()

	if _, err := service.GetOrCreate(ctx, "", ""); err == nil {
		t.Fatalf("expected rejection of empty nickname")
	}
	if _, err := service.GetOrCreate(ctx, strings.Repeat("x", 21), ""); err == nil {
		t.Fatalf("expected rejection of overlong nickname")
	}

	// Bounds count characters, not bytes: 12 Cyrillic runes are 24 bytes.
	if _, err := service.GetOrCreate(ctx, "Предприятель", ""); err != nil {
		t.Fatalf("12-character nickname rejected: %v", err)
	}
	if _, err := service.GetOrCreate(ctx, strings.Repeat("ы", 21), ""); err == nil {
		t.Fatalf("expected rejection of 21-character nickname")
	}
}

func TestUpdateNicknameKeepsUniqueness(t *testing.T) {
	service, _, _ := newUserFixture()
	ctx := context.Background()

	alice, err := service.GetOrCreate(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("create alice: %v", err)
	}
	bob, err := service.GetOrCreate(ctx, "Bob", "")
	if err != nil {
		t.Fatalf("create bob: %v", err)
	}

	if _, err := service.UpdateNickname(ctx, bob.ID, "Alice"); !errors.Is(err, domain.ErrNicknameTaken) {
		t.Fatalf("expected ErrNicknameTaken, got %v", err)
	}
	updated, err := service.UpdateNickname(ctx, bob.ID, "Robert")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if updated.Nickname != "Robert" {
		t.Fatalf("nickname not updated: %+v", updated)
	}
	// Renaming to your own current nickname is a no-op, not a conflict.
	if _, err := service.UpdateNickname(ctx, alice.ID, "Alice"); err != nil {
		t.Fatalf("self-rename: %v", err)
	}
}

func TestGetProfileIncludesRecentScores(t *testing.T) {
	service, _, scores := newUserFixture()
	ctx := context.Background()

	user, err := service.GetOrCreate(ctx, "Alice", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for i := 0; i < 12; i++ {
		scores.Append(ctx, domain.Score{
			ID:        string(rune('a' + i)),
			UserID:    user.ID,
			Value:     i * 10,
			GameMode:  domain.ModeSingle,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		})
	}

	profile, err := service.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if len(profile.Scores) != 10 {
		t.Fatalf("expected the ten most recent scores, got %d", len(profile.Scores))
	}
	if profile.Scores[0].Value != 110 {
		t.Fatalf("expected newest score first, got %+v", profile.Scores[0])
	}
}
