package app

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// WeeklyWindow is the trailing span covered by the weekly leaderboard.
// The lower bound is inclusive, the upper bound is "now".
const WeeklyWindow = 7 * 24 * time.Hour

// LeaderboardService is the read-only ranking engine over persisted users
// and scores. Queries use strict-greater/strict-less comparisons only, so
// they stay correct under concurrent score submissions.
type LeaderboardService struct {
	users  UserStore
	scores ScoreStore
	clock  func() time.Time
}

func NewLeaderboardService(users UserStore, scores ScoreStore) *LeaderboardService {
	return &LeaderboardService{users: users, scores: scores, clock: time.Now}
}

// NewLeaderboardServiceWithClock is test-only for a fixed "now".
func NewLeaderboardServiceWithClock(users UserStore, scores ScoreStore, clock func() time.Time) *LeaderboardService {
	return &LeaderboardService{users: users, scores: scores, clock: clock}
}

// GlobalTop returns the top-limit users by all-time high score with 1-based
// ranks. Ties are broken by earliest registration, then user id.
func (s *LeaderboardService) GlobalTop(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	users, err := s.users.TopByHighScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]domain.LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = domain.LeaderboardEntry{
			UserID:    u.ID,
			Nickname:  u.Nickname,
			HighScore: u.HighScore,
			Rank:      i + 1,
		}
	}
	return entries, nil
}

// weeklyBest is each user's best score inside the window; on equal values
// the earliest record is kept.
type weeklyBest struct {
	userID   string
	value    int
	scoredAt time.Time
}

// WeeklyTop returns the top-limit users by their best score within the
// trailing 7 days, with the timestamp of the score that achieved it.
func (s *LeaderboardService) WeeklyTop(ctx context.Context, limit int) ([]domain.WeeklyEntry, error) {
	best, err := s.weeklyBests(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]weeklyBest, 0, len(best))
	for _, b := range best {
		ranked = append(ranked, b)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].value != ranked[j].value {
			return ranked[i].value > ranked[j].value
		}
		if !ranked[i].scoredAt.Equal(ranked[j].scoredAt) {
			return ranked[i].scoredAt.Before(ranked[j].scoredAt)
		}
		return ranked[i].userID < ranked[j].userID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]domain.WeeklyEntry, 0, len(ranked))
	for i, b := range ranked {
		user, err := s.users.Get(ctx, b.userID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.WeeklyEntry{
			UserID:   b.userID,
			Nickname: user.Nickname,
			Score:    b.value,
			ScoredAt: b.scoredAt,
			Rank:     i + 1,
		})
	}
	return entries, nil
}

// UserRank computes the user's global and weekly standing. The global rank
// is 1 + the number of users with a strictly greater high score; the weekly
// rank counts window scores strictly greater than the user's window best,
// and is nil when the user has not scored inside the window.
func (s *LeaderboardService) UserRank(ctx context.Context, userID string) (domain.UserRank, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return domain.UserRank{}, err
	}

	higher, err := s.users.CountHigher(ctx, user.HighScore)
	if err != nil {
		return domain.UserRank{}, err
	}

	rank := domain.UserRank{
		Nickname:    user.Nickname,
		GlobalRank:  higher + 1,
		GlobalScore: user.HighScore,
	}

	window, err := s.scores.Since(ctx, s.clock().Add(-WeeklyWindow))
	if err != nil {
		return domain.UserRank{}, err
	}
	best, found := 0, false
	for _, sc := range window {
		if sc.UserID == userID && (!found || sc.Value > best) {
			best, found = sc.Value, true
		}
	}
	if found {
		better := 0
		for _, sc := range window {
			if sc.Value > best {
				better++
			}
		}
		weekly := better + 1
		rank.WeeklyRank = &weekly
		rank.WeeklyScore = best
	}
	return rank, nil
}

// UsersAround returns up to rng users strictly above the given user, the
// user itself, and up to rng strictly below, merged in descending high score
// order with relative ranks. The queried user appears exactly once.
func (s *LeaderboardService) UsersAround(ctx context.Context, userID string, rng int) ([]domain.NeighborEntry, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	above, err := s.users.Above(ctx, user.HighScore, rng)
	if err != nil {
		return nil, err
	}
	below, err := s.users.Below(ctx, user.HighScore, rng)
	if err != nil {
		return nil, err
	}

	// Above arrives closest-first (ascending); reverse it so the merged
	// slice reads top to bottom.
	merged := make([]domain.User, 0, len(above)+len(below)+1)
	for i := len(above) - 1; i >= 0; i-- {
		merged = append(merged, above[i])
	}
	merged = append(merged, user)
	merged = append(merged, below...)

	entries := make([]domain.NeighborEntry, len(merged))
	for i, u := range merged {
		entries[i] = domain.NeighborEntry{
			UserID:    u.ID,
			Nickname:  u.Nickname,
			HighScore: u.HighScore,
			Rank:      i + 1,
			IsCurrent: u.ID == userID,
		}
	}
	return entries, nil
}

// History returns the user's most recent scores, optionally filtered by mode.
func (s *LeaderboardService) History(ctx context.Context, userID string, mode *domain.GameMode, limit int) ([]domain.Score, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}
	return s.scores.History(ctx, userID, mode, limit)
}

// Stats aggregates the user's score history: game count, rounded average,
// all-time best and games played in the trailing 7 days.
func (s *LeaderboardService) Stats(ctx context.Context, userID string) (domain.PlayerStats, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return domain.PlayerStats{}, err
	}
	all, err := s.scores.ByUser(ctx, userID)
	if err != nil {
		return domain.PlayerStats{}, err
	}

	stats := domain.PlayerStats{TotalGames: len(all)}
	if len(all) == 0 {
		return stats, nil
	}
	sum := 0
	weekAgo := s.clock().Add(-WeeklyWindow)
	for _, sc := range all {
		sum += sc.Value
		if sc.Value > stats.BestScore {
			stats.BestScore = sc.Value
		}
		if !sc.CreatedAt.Before(weekAgo) {
			stats.RecentGames++
		}
	}
	stats.AverageScore = int(math.Round(float64(sum) / float64(len(all))))
	return stats, nil
}

func (s *LeaderboardService) weeklyBests(ctx context.Context) (map[string]weeklyBest, error) {
	window, err := s.scores.Since(ctx, s.clock().Add(-WeeklyWindow))
	if err != nil {
		return nil, err
	}
	best := make(map[string]weeklyBest)
	for _, sc := range window {
		b, ok := best[sc.UserID]
		switch {
		case !ok, sc.Value > b.value:
			best[sc.UserID] = weeklyBest{userID: sc.UserID, value: sc.Value, scoredAt: sc.CreatedAt}
		case sc.Value == b.value && sc.CreatedAt.Before(b.scoredAt):
			best[sc.UserID] = weeklyBest{userID: sc.UserID, value: sc.Value, scoredAt: sc.CreatedAt}
		}
	}
	return best, nil
}
