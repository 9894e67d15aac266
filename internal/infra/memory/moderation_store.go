package memory

import (
	"context"
	"sync"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// ModerationStore collects submitted questions in memory.
type ModerationStore struct {
	mu      sync.Mutex
	pending []domain.SubmittedQuestion
}

func NewModerationStore() *ModerationStore {
	return &ModerationStore{}
}

func (s *ModerationStore) Submit(_ context.Context, sq domain.SubmittedQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, sq)
	return nil
}

// Pending returns a copy of the moderation queue.
func (s *ModerationStore) Pending() []domain.SubmittedQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SubmittedQuestion, len(s.pending))
	copy(out, s.pending)
	return out
}
