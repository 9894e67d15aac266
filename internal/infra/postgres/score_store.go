package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// ScoreStore is the Postgres implementation of app.ScoreStore.
type ScoreStore struct {
	pool *pgxpool.Pool
}

func NewScoreStore(pool *pgxpool.Pool) *ScoreStore {
	return &ScoreStore{pool: pool}
}

func (s *ScoreStore) Append(ctx context.Context, score domain.Score) (domain.Score, error) {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scores (id, user_id, value, game_mode, created_at) VALUES ($1, $2, $3, $4, $5)`,
		score.ID, score.UserID, score.Value, string(score.GameMode), score.CreatedAt)
	if err != nil {
		return domain.Score{}, fmt.Errorf("append score: %w", err)
	}
	return score, nil
}

func (s *ScoreStore) History(ctx context.Context, userID string, mode *domain.GameMode, limit int) ([]domain.Score, error) {
	query := `SELECT id, user_id, value, game_mode, created_at FROM scores WHERE user_id=$1`
	args := []interface{}{userID}
	if mode != nil {
		query += ` AND game_mode=$2`
		args = append(args, string(*mode))
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)
	return s.many(ctx, query, args...)
}

func (s *ScoreStore) ByUser(ctx context.Context, userID string) ([]domain.Score, error) {
	return s.many(ctx,
		`SELECT id, user_id, value, game_mode, created_at FROM scores WHERE user_id=$1`, userID)
}

func (s *ScoreStore) Since(ctx context.Context, t time.Time) ([]domain.Score, error) {
	return s.many(ctx,
		`SELECT id, user_id, value, game_mode, created_at FROM scores WHERE created_at >= $1`, t)
}

func (s *ScoreStore) many(ctx context.Context, query string, args ...interface{}) ([]domain.Score, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []domain.Score
	for rows.Next() {
		var sc domain.Score
		var mode string
		if err := rows.Scan(&sc.ID, &sc.UserID, &sc.Value, &mode, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		sc.GameMode = domain.GameMode(mode)
		out = append(out, sc)
	}
	return out, rows.Err()
}
