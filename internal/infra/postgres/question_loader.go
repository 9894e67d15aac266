package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// QuestionLoader loads a category's active questions from Postgres. The
// option list is stored as JSONB.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx,
		`SELECT id, category, text, options, answer, is_active FROM questions
		 WHERE category=$1 AND is_active`, category)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	defer rows.Close()

	var out []domain.Question
	for rows.Next() {
		var q domain.Question
		var rawOptions []byte
		if err := rows.Scan(&q.ID, &q.Category, &q.Text, &rawOptions, &q.Answer, &q.IsActive); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(rawOptions, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
