package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
	"github.com/ivaldepablo/play-sib-v2/internal/game"
)

// GameService owns the live single-player sessions (one per user) and the
// score submission bridge that runs when a session's timer expires.
type GameService struct {
	users      UserStore
	scores     ScoreStore
	questions  game.QuestionSource
	rules      game.Rules
	categories []string
	clock      func() time.Time

	mu    sync.Mutex
	games map[string]*liveGame
}

// liveGame pairs a session with its one-shot submission outcome.
type liveGame struct {
	session *game.Session

	mu         sync.Mutex
	finished   bool
	finalScore int
	submitErr  error
}

// GameResult reports how a finished session was persisted. Submitted is
// false when the store was unreachable; the final score is still valid.
type GameResult struct {
	FinalScore int    `json:"finalScore"`
	Submitted  bool   `json:"submitted"`
	SubmitErr  string `json:"submitError,omitempty"`
}

func NewGameService(users UserStore, scores ScoreStore, questions game.QuestionSource, rules game.Rules, categories []string) *GameService {
	return &GameService{
		users:      users,
		scores:     scores,
		questions:  questions,
		rules:      rules,
		categories: categories,
		clock:      time.Now,
		games:      make(map[string]*liveGame),
	}
}

// NewGameServiceWithClock is test-only for deterministic score timestamps.
func NewGameServiceWithClock(users UserStore, scores ScoreStore, questions game.QuestionSource, rules game.Rules, categories []string, clock func() time.Time) *GameService {
	s := NewGameService(users, scores, questions, rules, categories)
	s.clock = clock
	return s
}

// StartSession begins a fresh session for the user, abandoning any previous
// live one (its timers are cancelled, nothing is submitted for it).
func (s *GameService) StartSession(ctx context.Context, userID string) (game.Snapshot, error) {
	if _, err := s.users.Get(ctx, userID); err != nil {
		return game.Snapshot{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.games[userID]; ok {
		prev.session.Abandon()
	}

	lg := &liveGame{}
	lg.session = game.NewSession(s.rules, s.categories, s.questions, func(final int) {
		s.submitScore(userID, lg, final)
	})
	s.games[userID] = lg
	lg.session.Start()
	return lg.session.Snapshot(), nil
}

// Spin runs the category wheel for the user's live session.
func (s *GameService) Spin(ctx context.Context, userID string) (game.SpinOutcome, error) {
	lg, err := s.live(userID)
	if err != nil {
		return game.SpinOutcome{}, err
	}
	return lg.session.SpinWheel(ctx)
}

// Answer grades the user's choice for the current question.
func (s *GameService) Answer(userID, choice string) (game.AnswerOutcome, error) {
	lg, err := s.live(userID)
	if err != nil {
		return game.AnswerOutcome{}, err
	}
	return lg.session.SubmitAnswer(choice)
}

// Tick advances the user's session by one second and returns its state.
func (s *GameService) Tick(userID string) (game.Snapshot, error) {
	lg, err := s.live(userID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return lg.session.Tick(), nil
}

// Snapshot returns the current session state without advancing time.
func (s *GameService) Snapshot(userID string) (game.Snapshot, error) {
	lg, err := s.live(userID)
	if err != nil {
		return game.Snapshot{}, err
	}
	return lg.session.Snapshot(), nil
}

// Result reports the submission outcome of the user's finished session.
func (s *GameService) Result(userID string) (GameResult, error) {
	lg, err := s.live(userID)
	if err != nil {
		return GameResult{}, err
	}
	lg.mu.Lock()
	defer lg.mu.Unlock()
	if !lg.finished {
		return GameResult{}, domain.ErrNoSession
	}
	res := GameResult{FinalScore: lg.finalScore, Submitted: lg.submitErr == nil}
	if lg.submitErr != nil {
		res.SubmitErr = lg.submitErr.Error()
	}
	return res, nil
}

// Leave abandons the user's live session without submitting anything.
func (s *GameService) Leave(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lg, ok := s.games[userID]; ok {
		lg.session.Abandon()
		delete(s.games, userID)
	}
}

func (s *GameService) live(userID string) (*liveGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lg, ok := s.games[userID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return lg, nil
}

// submitScore appends the Score row and then bumps the user's high score if
// beaten. The two writes are not atomic; the high score update runs
// unconditionally as part of the same flow. A store failure is recorded on
// the game so the end screen can show the score with a submission warning.
func (s *GameService) submitScore(userID string, lg *liveGame, final int) {
	lg.mu.Lock()
	if lg.finished {
		lg.mu.Unlock()
		return
	}
	lg.finished = true
	lg.finalScore = final
	lg.mu.Unlock()

	ctx := context.Background()
	_, err := s.scores.Append(ctx, domain.Score{
		ID:        uuid.NewString(),
		UserID:    userID,
		Value:     final,
		GameMode:  domain.ModeSingle,
		CreatedAt: s.clock(),
	})
	if err == nil {
		var user domain.User
		user, err = s.users.Get(ctx, userID)
		if err == nil && final > user.HighScore {
			err = s.users.UpdateHighScore(ctx, userID, final)
		}
	}
	if err != nil {
		log.Printf("score submission failed for user %s: %v", userID, err)
		lg.mu.Lock()
		lg.submitErr = err
		lg.mu.Unlock()
	}
}
