package game

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/ivaldepablo/play-sib-v2/internal/domain"
)

// staticSource serves the same pool for every category.
type staticSource struct {
	pool []domain.Question
}

func (s staticSource) ActiveByCategory(_ context.Context, category string) ([]domain.Question, error) {
	out := make([]domain.Question, len(s.pool))
	copy(out, s.pool)
	for i := range out {
		out[i].Category = category
	}
	return out, nil
}

type emptySource struct{}

func (emptySource) ActiveByCategory(context.Context, string) ([]domain.Question, error) {
	return nil, nil
}

func sampleQuestion(id string) domain.Question {
	return domain.Question{
		ID:       id,
		Text:     "pick the first option",
		Options:  []string{"right", "wrong1", "wrong2", "wrong3"},
		Answer:   "right",
		IsActive: true,
	}
}

func newTestSession(rules Rules, source QuestionSource, onEnd func(int)) *Session {
	return NewSessionWithRand(rules, testCategories, source, onEnd, rand.New(rand.NewSource(11)))
}

func startedSession(t *testing.T, rules Rules, source QuestionSource, onEnd func(int)) *Session {
	t.Helper()
	s := newTestSession(rules, source, onEnd)
	s.Start()
	return s
}

func TestIdleSessionEndsWithZeroScore(t *testing.T) {
	var final = -1
	calls := 0
	s := startedSession(t, Rules{SessionSeconds: 60, QuestionSeconds: 20, RevealTicks: 2},
		staticSource{pool: []domain.Question{sampleQuestion("q1")}},
		func(score int) { final = score; calls++ })

	for i := 0; i < 59; i++ {
		if snap := s.Tick(); snap.State == StateEnded {
			t.Fatalf("session ended early at tick %d", i)
		}
	}
	snap := s.Tick()
	if snap.State != StateEnded {
		t.Fatalf("expected ended after 60 ticks, got %v", snap.State)
	}
	if final != 0 || calls != 1 {
		t.Fatalf("expected one end callback with score 0, got score=%d calls=%d", final, calls)
	}

	// Further ticks keep the terminal state and never re-fire the hook.
	s.Tick()
	if calls != 1 {
		t.Fatalf("end hook fired again")
	}
}

func TestCorrectAnswerAwardsTenPoints(t *testing.T) {
	s := startedSession(t, DefaultRules(), staticSource{pool: []domain.Question{sampleQuestion("q1")}}, nil)

	outcome, err := s.SpinWheel(context.Background())
	if err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if outcome.Question.ID != "q1" {
		t.Fatalf("unexpected question %q", outcome.Question.ID)
	}
	if s.State() != StateAwaitingAnswer {
		t.Fatalf("expected awaitingAnswer, got %v", s.State())
	}

	result, err := s.SubmitAnswer("right")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if !result.Correct || result.Score != 10 {
		t.Fatalf("expected correct answer worth 10, got %+v", result)
	}
	if s.State() != StateRevealing {
		t.Fatalf("expected revealing, got %v", s.State())
	}

	// No input accepted during the reveal pause.
	if _, err := s.SubmitAnswer("right"); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected answer rejection during reveal, got %v", err)
	}
	if _, err := s.SpinWheel(context.Background()); !errors.Is(err, domain.ErrSpinInProgress) {
		t.Fatalf("expected spin rejection during reveal, got %v", err)
	}

	s.Tick()
	s.Tick()
	if s.State() != StateAwaitingCategory {
		t.Fatalf("expected awaitingCategory after reveal, got %v", s.State())
	}
}

func TestWrongAnswerLeavesScoreUnchanged(t *testing.T) {
	s := startedSession(t, DefaultRules(), staticSource{pool: []domain.Question{sampleQuestion("q1")}}, nil)

	if _, err := s.SpinWheel(context.Background()); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	result, err := s.SubmitAnswer("wrong1")
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if result.Correct || result.Score != 0 {
		t.Fatalf("expected incorrect with score 0, got %+v", result)
	}
	if result.CorrectAnswer != "right" {
		t.Fatalf("reveal must carry the correct answer, got %q", result.CorrectAnswer)
	}
}

func TestInvalidChoiceIsRejectedWithoutGrading(t *testing.T) {
	s := startedSession(t, DefaultRules(), staticSource{pool: []domain.Question{sampleQuestion("q1")}}, nil)

	if _, err := s.SpinWheel(context.Background()); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	if _, err := s.SubmitAnswer("not an option"); !errors.Is(err, domain.ErrInvalidChoice) {
		t.Fatalf("expected ErrInvalidChoice, got %v", err)
	}
	if s.State() != StateAwaitingAnswer {
		t.Fatalf("invalid choice must not change state, got %v", s.State())
	}

	// The question can still be answered after the rejected attempt.
	result, err := s.SubmitAnswer("right")
	if err != nil || !result.Correct {
		t.Fatalf("expected graded answer after rejection, got %+v err=%v", result, err)
	}
}

func TestQuestionTimeoutGradesAsIncorrect(t *testing.T) {
	rules := Rules{SessionSeconds: 300, QuestionSeconds: 3, RevealTicks: 1}
	s := startedSession(t, rules, staticSource{pool: []domain.Question{sampleQuestion("q1")}}, nil)

	if _, err := s.SpinWheel(context.Background()); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	s.Tick()
	s.Tick()
	if s.State() != StateAwaitingAnswer {
		t.Fatalf("question timed out early")
	}
	s.Tick()
	if s.State() != StateRevealing {
		t.Fatalf("expected revealing after timeout, got %v", s.State())
	}
	if s.Score() != 0 {
		t.Fatalf("timeout must not award points, score=%d", s.Score())
	}
	s.Tick()
	if s.State() != StateAwaitingCategory {
		t.Fatalf("expected awaitingCategory after reveal, got %v", s.State())
	}
	// The question timer sits refilled and stopped between questions.
	if s.questionTimer.Running() {
		t.Fatalf("question timer must be inert while awaiting a category")
	}
	if got := s.questionTimer.Remaining(); got != rules.QuestionSeconds {
		t.Fatalf("question timer must be refilled between questions, remaining=%d", got)
	}
}

func TestSessionExpiryTakesPrecedenceOverQuestionTimeout(t *testing.T) {
	ended := false
	rules := Rules{SessionSeconds: 2, QuestionSeconds: 2, RevealTicks: 2}
	s := startedSession(t, rules, staticSource{pool: []domain.Question{sampleQuestion("q1")}},
		func(int) { ended = true })

	if _, err := s.SpinWheel(context.Background()); err != nil {
		t.Fatalf("spin failed: %v", err)
	}
	s.Tick()
	snap := s.Tick() // both countdowns due; the session must win
	if snap.State != StateEnded {
		t.Fatalf("expected ended, got %v", snap.State)
	}
	if !ended {
		t.Fatalf("end hook not fired")
	}
	if snap.Question != nil {
		t.Fatalf("in-flight question must be discarded on expiry")
	}
}

func TestEmptyPoolFailsSpinAndAllowsRetry(t *testing.T) {
	s := startedSession(t, DefaultRules(), emptySource{}, nil)

	if _, err := s.SpinWheel(context.Background()); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
	if s.State() != StateAwaitingCategory {
		t.Fatalf("failed spin must stay awaitingCategory, got %v", s.State())
	}
	// The wheel settles on failure so the next spin is not rejected.
	if _, err := s.SpinWheel(context.Background()); !errors.Is(err, domain.ErrNoQuestions) {
		t.Fatalf("expected retry to reach the pool again, got %v", err)
	}
}

func TestScoreIsMonotonicMultipleOfTen(t *testing.T) {
	rules := Rules{SessionSeconds: 1000, QuestionSeconds: 20, RevealTicks: 1}
	s := startedSession(t, rules, staticSource{pool: []domain.Question{sampleQuestion("q1"), sampleQuestion("q2")}}, nil)

	previous := 0
	for i := 0; i < 10; i++ {
		if _, err := s.SpinWheel(context.Background()); err != nil {
			t.Fatalf("spin %d failed: %v", i, err)
		}
		choice := "right"
		if i%3 == 0 {
			choice = "wrong1"
		}
		result, err := s.SubmitAnswer(choice)
		if err != nil {
			t.Fatalf("answer %d failed: %v", i, err)
		}
		if result.Score%10 != 0 {
			t.Fatalf("score %d not a multiple of 10", result.Score)
		}
		if result.Score < previous {
			t.Fatalf("score decreased from %d to %d", previous, result.Score)
		}
		previous = result.Score
		s.Tick()
	}
}

func TestNoImmediateQuestionRepeat(t *testing.T) {
	rules := Rules{SessionSeconds: 1000, QuestionSeconds: 20, RevealTicks: 1}
	pool := []domain.Question{sampleQuestion("q1"), sampleQuestion("q2"), sampleQuestion("q3")}
	s := startedSession(t, rules, staticSource{pool: pool}, nil)

	last := ""
	for i := 0; i < 30; i++ {
		outcome, err := s.SpinWheel(context.Background())
		if err != nil {
			t.Fatalf("spin %d failed: %v", i, err)
		}
		if outcome.Question.ID == last {
			t.Fatalf("question %q repeated back to back", last)
		}
		last = outcome.Question.ID
		if _, err := s.SubmitAnswer(""); err != nil {
			t.Fatalf("answer %d failed: %v", i, err)
		}
		s.Tick()
	}
}

func TestActionsAfterEndAreRejected(t *testing.T) {
	s := startedSession(t, Rules{SessionSeconds: 1, QuestionSeconds: 20, RevealTicks: 2},
		staticSource{pool: []domain.Question{sampleQuestion("q1")}}, nil)

	s.Tick()
	if s.State() != StateEnded {
		t.Fatalf("expected ended")
	}
	if _, err := s.SpinWheel(context.Background()); !errors.Is(err, domain.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded on spin, got %v", err)
	}
	if _, err := s.SubmitAnswer("right"); !errors.Is(err, domain.ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded on answer, got %v", err)
	}
}

func TestAbandonNeverFiresEndHook(t *testing.T) {
	fired := false
	s := startedSession(t, Rules{SessionSeconds: 2, QuestionSeconds: 20, RevealTicks: 2},
		staticSource{pool: []domain.Question{sampleQuestion("q1")}},
		func(int) { fired = true })

	s.Abandon()
	s.Tick()
	s.Tick()
	s.Tick()
	if fired {
		t.Fatalf("abandoned session must not submit")
	}
	if s.State() != StateEnded {
		t.Fatalf("abandoned session must be terminal, got %v", s.State())
	}
}
