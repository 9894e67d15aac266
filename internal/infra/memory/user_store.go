package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// UserStore is an in-memory implementation of app.UserStore.
type UserStore struct {
	mu         sync.RWMutex
	users      map[string]domain.User
	byNickname map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:      make(map[string]domain.User),
		byNickname: make(map[string]string),
	}
}

func (s *UserStore) Create(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byNickname[user.Nickname]; ok {
		return domain.ErrNicknameTaken
	}
	s.users[user.ID] = user
	s.byNickname[user.Nickname] = user.ID
	return nil
}

func (s *UserStore) Get(_ context.Context, id string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) GetByNickname(_ context.Context, nickname string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byNickname[nickname]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *UserStore) UpdateNickname(_ context.Context, id, nickname string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	if other, taken := s.byNickname[nickname]; taken && other != id {
		return domain.User{}, domain.ErrNicknameTaken
	}
	delete(s.byNickname, user.Nickname)
	user.Nickname = nickname
	s.users[id] = user
	s.byNickname[nickname] = id
	return user, nil
}

func (s *UserStore) UpdateHighScore(_ context.Context, id string, highScore int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.HighScore = highScore
	s.users[id] = user
	return nil
}

func (s *UserStore) TopByHighScore(_ context.Context, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := s.sortedDescLocked()
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *UserStore) CountHigher(_ context.Context, highScore int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, u := range s.users {
		if u.HighScore > highScore {
			count++
		}
	}
	return count, nil
}

// Above returns users with a strictly greater high score, closest first.
func (s *UserStore) Above(_ context.Context, highScore, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.HighScore > highScore {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HighScore != out[j].HighScore {
			return out[i].HighScore < out[j].HighScore
		}
		return lessByAge(out[i], out[j])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Below returns users with a strictly lower high score, closest first.
func (s *UserStore) Below(_ context.Context, highScore, limit int) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.User
	for _, u := range s.users {
		if u.HighScore < highScore {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HighScore != out[j].HighScore {
			return out[i].HighScore > out[j].HighScore
		}
		return lessByAge(out[i], out[j])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// sortedDescLocked orders all users by high score descending, breaking ties
// by earliest registration then id.
func (s *UserStore) sortedDescLocked() []domain.User {
	all := make([]domain.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].HighScore != all[j].HighScore {
			return all[i].HighScore > all[j].HighScore
		}
		return lessByAge(all[i], all[j])
	})
	return all
}

func lessByAge(a, b domain.User) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
