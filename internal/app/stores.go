package app

import (
	"context"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// UserStore abstracts persistence of users (in-memory, Postgres, etc).
//
// Ordered queries use a fixed deterministic sort: high score descending,
// then earliest CreatedAt, then id. Above/Below return the users closest to
// the boundary first.
type UserStore interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, id string) (domain.User, error)
	GetByNickname(ctx context.Context, nickname string) (domain.User, error)
	UpdateNickname(ctx context.Context, id, nickname string) (domain.User, error)
	UpdateHighScore(ctx context.Context, id string, highScore int) error
	TopByHighScore(ctx context.Context, limit int) ([]domain.User, error)
	CountHigher(ctx context.Context, highScore int) (int, error)
	Above(ctx context.Context, highScore, limit int) ([]domain.User, error)
	Below(ctx context.Context, highScore, limit int) ([]domain.User, error)
}

// ScoreStore is the append-only log of completed sessions.
type ScoreStore interface {
	Append(ctx context.Context, score domain.Score) (domain.Score, error)
	History(ctx context.Context, userID string, mode *domain.GameMode, limit int) ([]domain.Score, error)
	ByUser(ctx context.Context, userID string) ([]domain.Score, error)
	// Since returns all scores with CreatedAt >= t (inclusive lower bound).
	Since(ctx context.Context, t time.Time) ([]domain.Score, error)
}

// ModerationStore receives player-submitted questions for review.
type ModerationStore interface {
	Submit(ctx context.Context, sq domain.SubmittedQuestion) error
}

// RoomStore persists duel room stubs keyed by id and join code.
type RoomStore interface {
	Save(ctx context.Context, room domain.GameRoom) error
	Get(ctx context.Context, id string) (domain.GameRoom, error)
	GetByCode(ctx context.Context, code string) (domain.GameRoom, error)
}
