package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// LeaderboardSource computes the ranked views this cache fronts.
type LeaderboardSource interface {
	GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	WeeklyTop(ctx context.Context, limit int) ([]domain.WeeklyEntry, error)
}

// LeaderboardCache fronts the ranking engine with short-lived Redis entries
// so a busy leaderboard page does not recompute ranks on every request.
// Rank-relative queries (user rank, users around) are never cached; they
// must observe fresh strict-greater counts.
type LeaderboardCache struct {
	client *redis.Client
	source LeaderboardSource
	ttl    time.Duration
	sf     singleflight.Group
}

func NewLeaderboardCache(client *redis.Client, source LeaderboardSource, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, source: source, ttl: ttl}
}

func (c *LeaderboardCache) GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	key := fmt.Sprintf("leaderboard:global:%d", limit)
	var entries []domain.LeaderboardEntry
	err := c.fetch(ctx, key, &entries, func() (interface{}, error) {
		return c.source.GlobalTop(ctx, limit)
	})
	return entries, err
}

func (c *LeaderboardCache) WeeklyTop(ctx context.Context, limit int) ([]domain.WeeklyEntry, error) {
	key := fmt.Sprintf("leaderboard:weekly:%d", limit)
	var entries []domain.WeeklyEntry
	err := c.fetch(ctx, key, &entries, func() (interface{}, error) {
		return c.source.WeeklyTop(ctx, limit)
	})
	return entries, err
}

// fetch reads the cached JSON for key into out, computing and storing it on
// a miss. Concurrent misses for the same key collapse into one compute.
func (c *LeaderboardCache) fetch(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) error {
	if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
		if err := json.Unmarshal(raw, out); err == nil {
			return nil
		}
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		if raw, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return raw, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, key, raw, c.ttl).Err()
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(result.([]byte), out)
}
