package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// ScoreStore is an in-memory append-only implementation of app.ScoreStore.
type ScoreStore struct {
	mu     sync.RWMutex
	scores []domain.Score
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{}
}

func (s *ScoreStore) Append(_ context.Context, score domain.Score) (domain.Score, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, score)
	return score, nil
}

func (s *ScoreStore) History(_ context.Context, userID string, mode *domain.GameMode, limit int) ([]domain.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Score
	for _, sc := range s.scores {
		if sc.UserID != userID {
			continue
		}
		if mode != nil && sc.GameMode != *mode {
			continue
		}
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *ScoreStore) ByUser(_ context.Context, userID string) ([]domain.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Score
	for _, sc := range s.scores {
		if sc.UserID == userID {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *ScoreStore) Since(_ context.Context, t time.Time) ([]domain.Score, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Score
	for _, sc := range s.scores {
		if !sc.CreatedAt.Before(t) {
			out = append(out, sc)
		}
	}
	return out, nil
}
