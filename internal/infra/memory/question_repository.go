package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// QuestionLoader fetches a category's question pool from a backing store.
type QuestionLoader interface {
	LoadByCategory(ctx context.Context, category string) ([]domain.Question, error)
}

// QuestionRepository caches active question pools per category with TTL to
// avoid hitting the backing store on every wheel spin.
type QuestionRepository struct {
	loader QuestionLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedPool
}

type cachedPool struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionRepository(loader QuestionLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedPool),
	}
}

// ActiveByCategory returns the cached active pool for a category, loading
// and filtering it on a miss. Inactive questions never leave this layer.
func (r *QuestionRepository) ActiveByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[category]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.questions, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(category, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[category]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.questions, nil
		}
		r.mu.RUnlock()

		pool, err := r.loader.LoadByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		active := filterActive(pool)

		r.mu.Lock()
		r.cache[category] = cachedPool{
			questions: active,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return active, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func filterActive(pool []domain.Question) []domain.Question {
	active := make([]domain.Question, 0, len(pool))
	for _, q := range pool {
		if q.IsActive {
			active = append(active, q)
		}
	}
	return active
}

// StaticQuestionLoader is a simple loader backed by an in-memory map
// (useful for tests/demos).
type StaticQuestionLoader struct {
	byCategory map[string][]domain.Question
}

func NewStaticQuestionLoader(byCategory map[string][]domain.Question) *StaticQuestionLoader {
	return &StaticQuestionLoader{byCategory: byCategory}
}

func (l *StaticQuestionLoader) LoadByCategory(_ context.Context, category string) ([]domain.Question, error) {
	return l.byCategory[category], nil
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
