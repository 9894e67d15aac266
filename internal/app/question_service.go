package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/game"
)

// optionCount is the fixed number of choices on every question.
const optionCount = 4

// QuestionService serves active question pools and accepts player-submitted
// questions into the moderation queue.
type QuestionService struct {
	source     game.QuestionSource
	moderation ModerationStore
	clock      func() time.Time
}

func NewQuestionService(source game.QuestionSource, moderation ModerationStore) *QuestionService {
	return &QuestionService{source: source, moderation: moderation, clock: time.Now}
}

// ActiveByCategory returns the active pool for a category.
func (s *QuestionService) ActiveByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	return s.source.ActiveByCategory(ctx, category)
}

// Submit validates and queues a player-proposed question for moderation.
func (s *QuestionService) Submit(ctx context.Context, sq domain.SubmittedQuestion) error {
	if sq.Text == "" {
		return fmt.Errorf("question text is required")
	}
	if len(sq.Options) != optionCount {
		return fmt.Errorf("question must have exactly %d options", optionCount)
	}
	matches := 0
	for _, opt := range sq.Options {
		if opt == sq.Answer {
			matches++
		}
	}
	if matches != 1 {
		return fmt.Errorf("exactly one option must equal the answer")
	}

	sq.ID = uuid.NewString()
	sq.CreatedAt = s.clock()
	return s.moderation.Submit(ctx, sq)
}
