package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// ModerationStore writes player-submitted questions to the review queue.
type ModerationStore struct {
	pool *pgxpool.Pool
}

func NewModerationStore(pool *pgxpool.Pool) *ModerationStore {
	return &ModerationStore{pool: pool}
}

func (s *ModerationStore) Submit(ctx context.Context, sq domain.SubmittedQuestion) error {
	options, err := json.Marshal(sq.Options)
	if err != nil {
		return fmt.Errorf("marshal options: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO submitted_questions (id, user_id, category, text, options, answer, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sq.ID, sq.UserID, sq.Category, sq.Text, options, sq.Answer, sq.CreatedAt)
	if err != nil {
		return fmt.Errorf("submit question: %w", err)
	}
	return nil
}
