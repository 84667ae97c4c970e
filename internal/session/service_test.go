package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/skill-horizon/internal/catalog"
	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/leaderboard"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
	ws "github.com/gokatarajesh/skill-horizon/pkg/http/ws"
)

type builtinCatalog struct{}

func (builtinCatalog) Get(_ context.Context, quizID string) (quiz.Definition, error) {
	def, ok := quiz.Builtin()[quizID]
	if !ok {
		return quiz.Definition{}, catalog.ErrQuizNotFound
	}
	return def, nil
}

func (builtinCatalog) List(context.Context) ([]catalog.Summary, error) {
	def := quiz.CareerFundamentals()
	return []catalog.Summary{{ID: def.ID, Title: def.Title, QuestionCount: len(def.Questions)}}, nil
}

type recordingAttempts struct {
	mu      sync.Mutex
	records []repository.AttemptRecord
	err     error
}

func (r *recordingAttempts) Record(_ context.Context, rec repository.AttemptRecord) (sqlcgen.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return sqlcgen.QuizAttempt{}, r.err
}

func (r *recordingAttempts) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type recordingLeaderboard struct {
	requests []leaderboard.RecordRequest
}

func (r *recordingLeaderboard) RecordResult(_ context.Context, req leaderboard.RecordRequest) error {
	r.requests = append(r.requests, req)
	return nil
}

type staticNames map[uuid.UUID]string

func (n staticNames) DisplayNames(context.Context, []uuid.UUID) (map[uuid.UUID]string, error) {
	return n, nil
}

type recordingBroadcaster struct {
	mu       sync.Mutex
	messages []ws.Message
}

func (b *recordingBroadcaster) Broadcast(_ string, msg ws.Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.messages = append(b.messages, msg)
	return nil
}

type fixture struct {
	svc         *Service
	store       *RedisStore
	attempts    *recordingAttempts
	leaderboard *recordingLeaderboard
	broadcaster *recordingBroadcaster
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, _ := newTestStore(t)
	f := fixture{
		store:       store,
		attempts:    &recordingAttempts{},
		leaderboard: &recordingLeaderboard{},
		broadcaster: &recordingBroadcaster{},
	}
	f.svc = NewService(builtinCatalog{}, store, ServiceOptions{
		LockRetries:    2,
		LockRetryDelay: time.Millisecond,
		Attempts:       f.attempts,
		Leaderboard:    f.leaderboard,
		Names:          staticNames{},
		Broadcaster:    f.broadcaster,
	}, zerolog.Nop())
	return f
}

func mustApply(t *testing.T, svc *Service, id uuid.UUID, evt quiz.Event) View {
	t.Helper()
	view, err := svc.Apply(context.Background(), id, evt)
	require.NoError(t, err)
	return view
}

func playThrough(t *testing.T, svc *Service, id uuid.UUID, picks ...string) View {
	t.Helper()
	var view View
	for _, optionID := range picks {
		mustApply(t, svc, id, quiz.Event{Type: quiz.EventSelectOption, OptionID: optionID})
		mustApply(t, svc, id, quiz.Event{Type: quiz.EventCheckAnswer})
		view = mustApply(t, svc, id, quiz.Event{Type: quiz.EventNextQuestion})
	}
	return view
}

func TestStartReturnsInitialView(t *testing.T) {
	f := newFixture(t)
	view, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, "Career Development Fundamentals", view.QuizTitle)
	assert.Equal(t, 1, view.QuestionNumber)
	assert.Equal(t, 3, view.TotalQuestions)
	assert.Equal(t, 33, view.ProgressPercent)
	assert.Len(t, view.Question.Options, 4)
	assert.Nil(t, view.Feedback)
	assert.Nil(t, view.Result)

	id := uuid.MustParse(view.SessionID)
	rec, err := f.store.Load(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, quiz.InitialState(), rec.State)
}

func TestStartUnknownQuiz(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Start(context.Background(), "nope", uuid.Nil)
	assert.ErrorIs(t, err, catalog.ErrQuizNotFound)
}

func TestApplyOutOfOrderEventsAreNoops(t *testing.T) {
	f := newFixture(t)
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)
	id := uuid.MustParse(start.SessionID)

	for _, evt := range []quiz.Event{
		{Type: quiz.EventCheckAnswer},
		{Type: quiz.EventNextQuestion},
		{Type: "teleport"},
	} {
		view := mustApply(t, f.svc, id, evt)
		assert.False(t, view.Changed, evt.Type)
		assert.Equal(t, 1, view.QuestionNumber)
		assert.False(t, view.Answered)
	}
	assert.Empty(t, f.broadcaster.messages)
}

func TestApplyRevealsFeedbackAfterCheck(t *testing.T) {
	f := newFixture(t)
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)
	id := uuid.MustParse(start.SessionID)

	view := mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventSelectOption, OptionID: "q1a"})
	assert.True(t, view.Changed)
	assert.Equal(t, "q1a", view.SelectedOptionID)
	assert.Nil(t, view.Feedback)

	view = mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventCheckAnswer})
	require.NotNil(t, view.Feedback)
	assert.False(t, view.Feedback.Correct)
	assert.Equal(t, "Not quite right", view.Feedback.Title)
	assert.Equal(t, "q1b", view.Feedback.CorrectOptionID)
	assert.NotEmpty(t, view.Feedback.Explanation)
	assert.Equal(t, 0, view.Score)

	// Locked in: a late selection changes nothing.
	view = mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventSelectOption, OptionID: "q1b"})
	assert.False(t, view.Changed)
	assert.Equal(t, "q1a", view.SelectedOptionID)

	assert.Len(t, f.broadcaster.messages, 2)
	assert.Equal(t, ws.TypeSessionState, f.broadcaster.messages[0].Type)
}

func TestCompletionRecordedExactlyOnce(t *testing.T) {
	f := newFixture(t)
	userID := uuid.New()
	f.svc.opts.Names = staticNames{userID: "Ada"}

	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, userID)
	require.NoError(t, err)
	id := uuid.MustParse(start.SessionID)

	view := playThrough(t, f.svc, id, "q1b", "q2a", "q3c")
	assert.True(t, view.Completed)
	require.NotNil(t, view.Result)
	assert.Equal(t, Result{Score: 2, Total: 3, FinalPercent: 67, Tier: quiz.TierGood, Message: "Good job! You're getting there."}, *view.Result)
	assert.Equal(t, 3, view.QuestionNumber)

	for i := 0; i < 3; i++ {
		again := mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventNextQuestion})
		assert.False(t, again.Changed)
	}

	require.Equal(t, 1, f.attempts.count())
	rec := f.attempts.records[0]
	assert.Equal(t, id, rec.SessionID)
	assert.Equal(t, userID, rec.UserID)
	assert.Equal(t, 67, rec.FinalPercent)
	assert.Equal(t, quiz.TierGood, rec.Tier)

	require.Len(t, f.leaderboard.requests, 1)
	assert.Equal(t, leaderboard.RecordRequest{QuizID: quiz.CareerFundamentalsID, UserID: userID, DisplayName: "Ada", Percent: 67}, f.leaderboard.requests[0])

	restart := mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventRestart})
	assert.False(t, restart.Completed)
	assert.Equal(t, 0, restart.Score)

	playThrough(t, f.svc, id, "q1b", "q2c", "q3c")
	assert.Equal(t, 2, f.attempts.count())
	assert.Equal(t, 100, f.leaderboard.requests[1].Percent)
}

func TestAnonymousCompletionSkipsLeaderboard(t *testing.T) {
	f := newFixture(t)
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)

	view := playThrough(t, f.svc, uuid.MustParse(start.SessionID), "q1a", "q2a", "q3a")
	assert.Equal(t, quiz.TierNeedsImprovement, view.Result.Tier)
	assert.Equal(t, 1, f.attempts.count())
	assert.Empty(t, f.leaderboard.requests)
}

func TestAttemptFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	f.attempts.err = errors.New("db down")
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)

	view := playThrough(t, f.svc, uuid.MustParse(start.SessionID), "q1b", "q2c", "q3c")
	assert.True(t, view.Completed)
	assert.Equal(t, 100, view.Result.FinalPercent)
}

func TestApplyUnknownSession(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Apply(context.Background(), uuid.New(), quiz.Event{Type: quiz.EventRestart})
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = f.svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestApplyBusySession(t *testing.T) {
	f := newFixture(t)
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)
	id := uuid.MustParse(start.SessionID)

	unlock, err := f.store.Lock(context.Background(), id)
	require.NoError(t, err)
	defer unlock()

	_, err = f.svc.Apply(context.Background(), id, quiz.Event{Type: quiz.EventSelectOption, OptionID: "q1b"})
	assert.ErrorIs(t, err, ErrSessionBusy)
}

func TestConcurrentChecksScoreOnce(t *testing.T) {
	f := newFixture(t)
	f.svc.opts.LockRetries = 200
	start, err := f.svc.Start(context.Background(), quiz.CareerFundamentalsID, uuid.Nil)
	require.NoError(t, err)
	id := uuid.MustParse(start.SessionID)
	mustApply(t, f.svc, id, quiz.Event{Type: quiz.EventSelectOption, OptionID: "q1b"})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.svc.Apply(context.Background(), id, quiz.Event{Type: quiz.EventCheckAnswer})
		}()
	}
	wg.Wait()

	view, err := f.svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, view.Answered)
	assert.Equal(t, 1, view.Score)
}
