package app

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

const (
	minNicknameLen = 1
	maxNicknameLen = 20
)

// UserService handles player registration and profiles.
type UserService struct {
	users  UserStore
	scores ScoreStore
	clock  func() time.Time
}

func NewUserService(users UserStore, scores ScoreStore) *UserService {
	return &UserService{users: users, scores: scores, clock: time.Now}
}

// Profile is a user together with their most recent scores.
type Profile struct {
	domain.User
	Scores []domain.Score `json:"scores"`
}

// GetOrCreate returns the existing user when a known id is supplied,
// otherwise registers the nickname. Nicknames are unique.
func (s *UserService) GetOrCreate(ctx context.Context, nickname, userID string) (domain.User, error) {
	if userID != "" {
		if user, err := s.users.Get(ctx, userID); err == nil {
			return user, nil
		}
	}
	if err := validateNickname(nickname); err != nil {
		return domain.User{}, err
	}
	if _, err := s.users.GetByNickname(ctx, nickname); err == nil {
		return domain.User{}, domain.ErrNicknameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Nickname:  nickname,
		CreatedAt: s.clock(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// GetProfile returns the user with their ten most recent scores.
func (s *UserService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	scores, err := s.scores.History(ctx, userID, nil, 10)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: user, Scores: scores}, nil
}

// UpdateNickname renames the user, keeping nicknames unique.
func (s *UserService) UpdateNickname(ctx context.Context, userID, nickname string) (domain.User, error) {
	if err := validateNickname(nickname); err != nil {
		return domain.User{}, err
	}
	if existing, err := s.users.GetByNickname(ctx, nickname); err == nil {
		if existing.ID != userID {
			return domain.User{}, domain.ErrNicknameTaken
		}
		return existing, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, err
	}
	return s.users.UpdateNickname(ctx, userID, nickname)
}

func validateNickname(nickname string) error {
	// Length is in characters, not bytes; Cyrillic nicknames are the norm here.
	if n := utf8.RuneCountInString(nickname); n < minNicknameLen || n > maxNicknameLen {
		return fmt.Errorf("nickname must be %d-%d characters", minNicknameLen, maxNicknameLen)
	}
	return nil
}
