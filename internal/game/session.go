package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// State is the phase of a single-player game session.
type State int

const (
	// StateAwaitingCategory waits for a wheel spin.
	StateAwaitingCategory State = iota
	// StateAwaitingAnswer waits for the player's choice on the current question.
	StateAwaitingAnswer
	// StateRevealing shows the correct answer; input is rejected until the
	// reveal delay elapses.
	StateRevealing
	// StateEnded is terminal. Reached only via session timer expiry.
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingCategory:
		return "awaitingCategory"
	case StateAwaitingAnswer:
		return "awaitingAnswer"
	case StateRevealing:
		return "revealing"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// QuestionSource supplies the active question pool for a category.
type QuestionSource interface {
	ActiveByCategory(ctx context.Context, category string) ([]domain.Question, error)
}

// Rules fixes the timing budgets for a session. All values are in seconds
// except RevealTicks, which counts timer ticks of the reveal pause.
type Rules struct {
	SessionSeconds  int
	QuestionSeconds int
	RevealTicks     int
}

// DefaultRules mirrors the live game: 5 minute sessions, 20 seconds per
// question, a 2 second answer reveal.
func DefaultRules() Rules {
	return Rules{SessionSeconds: 300, QuestionSeconds: 20, RevealTicks: 2}
}

// SpinOutcome is returned by SpinWheel: the wheel result plus the question
// drawn from the winning category's pool.
type SpinOutcome struct {
	Spin     SpinResult
	Question domain.Question
}

// AnswerOutcome is the grading result for one question.
type AnswerOutcome struct {
	Correct       bool
	CorrectAnswer string
	Score         int
}

// Snapshot is a point-in-time view of the session for rendering.
type Snapshot struct {
	State             State
	Score             int
	SessionRemaining  int
	QuestionRemaining int
	Category          string
	Question          *domain.Question
}

// Session is the single-player game loop state machine. It owns two
// once-per-second countdowns (session and question) plus the short reveal
// pause, and accumulates the score. All methods are safe for concurrent use;
// in practice one browser session drives it from a single goroutine with a
// ticker alongside.
type Session struct {
	mu        sync.Mutex
	rules     Rules
	wheel     *Wheel
	questions QuestionSource
	rnd       *rand.Rand

	sessionTimer  *Countdown
	questionTimer *Countdown
	revealTimer   *Countdown

	state          State
	score          int
	current        *domain.Question
	category       string
	lastQuestionID string

	// onEnd fires exactly once when the session timer expires.
	onEnd func(finalScore int)
}

// NewSession builds a session in StateAwaitingCategory with all timers
// stopped; call Start to arm the session countdown.
func NewSession(rules Rules, categories []string, questions QuestionSource, onEnd func(int)) *Session {
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	return NewSessionWithRand(rules, categories, questions, onEnd, rnd)
}

// NewSessionWithRand allows deterministic wheel spins and question draws in tests.
func NewSessionWithRand(rules Rules, categories []string, questions QuestionSource, onEnd func(int), rnd *rand.Rand) *Session {
	return &Session{
		rules:         rules,
		wheel:         NewWheelWithRand(categories, rnd),
		questions:     questions,
		rnd:           rnd,
		sessionTimer:  NewCountdown(rules.SessionSeconds),
		questionTimer: NewCountdown(rules.QuestionSeconds),
		revealTimer:   NewCountdown(rules.RevealTicks),
		state:         StateAwaitingCategory,
		onEnd:         onEnd,
	}
}

// Start arms the session countdown.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded {
		return
	}
	s.sessionTimer.Start()
}

// SpinWheel runs the category wheel and presents a question drawn uniformly
// from the winning category's active pool. Rejected outside
// StateAwaitingCategory. An empty pool fails with ErrNoQuestions and leaves
// the session awaiting another spin.
func (s *Session) SpinWheel(ctx context.Context) (SpinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return SpinOutcome{}, domain.ErrSessionEnded
	}
	if s.state != StateAwaitingCategory {
		return SpinOutcome{}, domain.ErrSpinInProgress
	}

	spin, err := s.wheel.Spin()
	if err != nil {
		return SpinOutcome{}, err
	}

	pool, err := s.questions.ActiveByCategory(ctx, spin.Category)
	if err != nil {
		s.wheel.Settle()
		return SpinOutcome{}, err
	}
	if len(pool) == 0 {
		s.wheel.Settle()
		return SpinOutcome{}, domain.ErrNoQuestions
	}

	q := pool[s.rnd.Intn(len(pool))]
	// Avoid presenting the same question back to back; repeats later in the
	// session are fine (sampling is with replacement).
	for len(pool) > 1 && q.ID == s.lastQuestionID {
		q = pool[s.rnd.Intn(len(pool))]
	}
	s.wheel.Settle()
	s.current = &q
	s.lastQuestionID = q.ID
	s.category = spin.Category
	s.questionTimer.Start()
	s.state = StateAwaitingAnswer

	return SpinOutcome{Spin: spin, Question: q}, nil
}

// SubmitAnswer grades the current question. An empty choice represents a
// timeout and grades as incorrect; a non-empty choice must be one of the
// question's options. The session then shows the correct answer for the
// reveal pause before accepting the next spin.
func (s *Session) SubmitAnswer(choice string) (AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return AnswerOutcome{}, domain.ErrSessionEnded
	}
	if s.state != StateAwaitingAnswer || s.current == nil {
		return AnswerOutcome{}, domain.ErrNoSession
	}
	if choice != "" && !containsOption(s.current.Options, choice) {
		return AnswerOutcome{}, domain.ErrInvalidChoice
	}
	return s.gradeLocked(choice), nil
}

// gradeLocked applies exactly one grading event for the current question and
// moves the session into the reveal pause.
func (s *Session) gradeLocked(choice string) AnswerOutcome {
	correct := choice != "" && choice == s.current.Answer
	if correct {
		s.score += domain.PointsPerCorrect
	}
	answer := s.current.Answer

	s.questionTimer.Cancel()
	s.revealTimer.Start()
	s.state = StateRevealing

	return AnswerOutcome{Correct: correct, CorrectAnswer: answer, Score: s.score}
}

// Tick advances all running countdowns by one second. Session expiry takes
// precedence over a question timeout due in the same instant.
func (s *Session) Tick() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateEnded {
		return s.snapshotLocked()
	}

	if s.sessionTimer.Tick() {
		s.endLocked()
		return s.snapshotLocked()
	}

	switch s.state {
	case StateAwaitingAnswer:
		if s.questionTimer.Tick() {
			s.gradeLocked("")
		}
	case StateRevealing:
		if s.revealTimer.Tick() {
			s.current = nil
			s.category = ""
			s.questionTimer.Reset()
			s.state = StateAwaitingCategory
		}
	}
	return s.snapshotLocked()
}

// endLocked moves to the terminal state, cancels every countdown and fires
// the end hook with the final score. In-flight question state is discarded
// without grading.
func (s *Session) endLocked() {
	s.questionTimer.Cancel()
	s.revealTimer.Cancel()
	s.sessionTimer.Cancel()
	s.current = nil
	s.category = ""
	s.state = StateEnded
	if s.onEnd != nil {
		hook := s.onEnd
		s.onEnd = nil
		hook(s.score)
	}
}

// Abandon cancels all timers and discards the session without grading or
// submitting anything. Used when the player leaves mid-game.
func (s *Session) Abandon() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionTimer.Cancel()
	s.questionTimer.Cancel()
	s.revealTimer.Cancel()
	s.onEnd = nil
	s.current = nil
	s.state = StateEnded
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:            s.state,
		Score:            s.score,
		SessionRemaining: s.sessionTimer.Remaining(),
		Category:         s.category,
	}
	if s.state == StateAwaitingAnswer {
		snap.QuestionRemaining = s.questionTimer.Remaining()
	}
	if s.current != nil {
		q := *s.current
		snap.Question = &q
	}
	return snap
}

// Score returns the accumulated score so far.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func containsOption(options []string, choice string) bool {
	for _, opt := range options {
		if opt == choice {
			return true
		}
	}
	return false
}
