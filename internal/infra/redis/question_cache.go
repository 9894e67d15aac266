package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// QuestionLoader fetches a category's question pool from a backing store.
type QuestionLoader interface {
	LoadByCategory(ctx context.Context, category string) ([]domain.Question, error)
}

// QuestionCache keeps each category's active pool in Redis as a JSON blob:
// SET questions:{category} <json> EX ttl. Falls back to the loader on miss.
type QuestionCache struct {
	client *redis.Client
	loader QuestionLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuestionCache(client *redis.Client, loader QuestionLoader, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) ActiveByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	key := c.key(category)

	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var pool []domain.Question
		if err := json.Unmarshal(raw, &pool); err == nil {
			return pool, nil
		}
	}

	result, err, _ := c.sf.Do(category, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			var pool []domain.Question
			if err := json.Unmarshal(raw, &pool); err == nil {
				return pool, nil
			}
		}

		pool, err := c.loader.LoadByCategory(ctx, category)
		if err != nil {
			return nil, err
		}
		active := make([]domain.Question, 0, len(pool))
		for _, q := range pool {
			if q.IsActive {
				active = append(active, q)
			}
		}

		if raw, err := json.Marshal(active); err == nil {
			_ = c.client.Set(ctx, key, raw, c.ttlWithJitter()).Err()
		}
		return active, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

func (c *QuestionCache) key(category string) string {
	return "questions:" + category
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
