package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// UserStore is the Postgres implementation of app.UserStore. The ordered
// queries share one deterministic sort: high score, then registration time,
// then id.
type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func (s *UserStore) Create(ctx context.Context, user domain.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, nickname, high_score, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Nickname, user.HighScore, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) Get(ctx context.Context, id string) (domain.User, error) {
	return s.one(ctx, `SELECT id, nickname, high_score, created_at FROM users WHERE id=$1`, id)
}

func (s *UserStore) GetByNickname(ctx context.Context, nickname string) (domain.User, error) {
	return s.one(ctx, `SELECT id, nickname, high_score, created_at FROM users WHERE nickname=$1`, nickname)
}

func (s *UserStore) UpdateNickname(ctx context.Context, id, nickname string) (domain.User, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET nickname=$2 WHERE id=$1`, id, nickname)
	if err != nil {
		return domain.User{}, fmt.Errorf("update nickname: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.Get(ctx, id)
}

func (s *UserStore) UpdateHighScore(ctx context.Context, id string, highScore int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET high_score=$2 WHERE id=$1`, id, highScore)
	if err != nil {
		return fmt.Errorf("update high score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) TopByHighScore(ctx context.Context, limit int) ([]domain.User, error) {
	return s.many(ctx,
		`SELECT id, nickname, high_score, created_at FROM users
		 ORDER BY high_score DESC, created_at ASC, id ASC LIMIT $1`, limit)
}

func (s *UserStore) CountHigher(ctx context.Context, highScore int) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM users WHERE high_score > $1`, highScore).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count higher: %w", err)
	}
	return count, nil
}

func (s *UserStore) Above(ctx context.Context, highScore, limit int) ([]domain.User, error) {
	return s.many(ctx,
		`SELECT id, nickname, high_score, created_at FROM users WHERE high_score > $1
		 ORDER BY high_score ASC, created_at ASC, id ASC LIMIT $2`, highScore, limit)
}

func (s *UserStore) Below(ctx context.Context, highScore, limit int) ([]domain.User, error) {
	return s.many(ctx,
		`SELECT id, nickname, high_score, created_at FROM users WHERE high_score < $1
		 ORDER BY high_score DESC, created_at ASC, id ASC LIMIT $2`, highScore, limit)
}

func (s *UserStore) one(ctx context.Context, query string, args ...interface{}) (domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Nickname, &u.HighScore, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

func (s *UserStore) many(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var out []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Nickname, &u.HighScore, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
