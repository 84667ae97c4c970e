package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/leaderboard"
	"github.com/gokatarajesh/skill-horizon/internal/metrics"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
	ws "github.com/gokatarajesh/skill-horizon/pkg/http/ws"
)

type definitionSource interface {
	Get(ctx context.Context, quizID string) (quiz.Definition, error)
}

type attemptRecorder interface {
	Record(ctx context.Context, rec repository.AttemptRecord) (sqlcgen.QuizAttempt, error)
}

type resultRecorder interface {
	RecordResult(ctx context.Context, req leaderboard.RecordRequest) error
}

type nameLookup interface {
	DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
}

// Broadcaster fans a message out to every client watching a session.
type Broadcaster interface {
	Broadcast(sessionID string, msg ws.Message) error
}

// ServiceOptions configures lock contention handling and optional collaborators.
type ServiceOptions struct {
	LockRetries    int
	LockRetryDelay time.Duration

	Attempts    attemptRecorder
	Leaderboard resultRecorder
	Names       nameLookup
	Broadcaster Broadcaster
}

// Service runs quiz sessions on top of the engine, one locked load-dispatch-save cycle per event.
type Service struct {
	catalog definitionSource
	store   Store
	opts    ServiceOptions
	logger  zerolog.Logger
	now     func() time.Time
}

// NewService builds a session service.
func NewService(catalog definitionSource, store Store, opts ServiceOptions, logger zerolog.Logger) *Service {
	if opts.LockRetries <= 0 {
		opts.LockRetries = 20
	}
	if opts.LockRetryDelay <= 0 {
		opts.LockRetryDelay = 25 * time.Millisecond
	}
	return &Service{
		catalog: catalog,
		store:   store,
		opts:    opts,
		logger:  logger.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Start creates a session at the initial state. userID is uuid.Nil for anonymous play.
func (s *Service) Start(ctx context.Context, quizID string, userID uuid.UUID) (View, error) {
	def, err := s.catalog.Get(ctx, quizID)
	if err != nil {
		return View{}, err
	}
	e, err := quiz.NewEngine(def)
	if err != nil {
		return View{}, err
	}

	now := s.now().UTC()
	rec := Record{
		ID:        uuid.New(),
		QuizID:    def.ID,
		UserID:    userID,
		State:     e.State(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}

	metrics.SessionsStarted.WithLabelValues(def.ID).Inc()
	s.logger.Info().
		Str("session_id", rec.ID.String()).
		Str("quiz_id", def.ID).
		Bool("anonymous", rec.Anonymous()).
		Msg("session started")
	return buildView(rec, e, true), nil
}

// Get returns the current view of a session.
func (s *Service) Get(ctx context.Context, sessionID uuid.UUID) (View, error) {
	rec, e, err := s.restore(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return buildView(rec, e, false), nil
}

// Apply dispatches one event. Events that do not fit the current state leave it untouched
// and still return the view; only infrastructure failures are errors.
func (s *Service) Apply(ctx context.Context, sessionID uuid.UUID, evt quiz.Event) (View, error) {
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID.String()).Msg("session unlock failed")
		}
	}()

	rec, e, err := s.restore(ctx, sessionID)
	if err != nil {
		return View{}, err
	}

	before := e.State()
	changed := e.Dispatch(evt)
	if !changed {
		return buildView(rec, e, false), nil
	}

	rec.State = e.State()
	rec.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, rec); err != nil {
		return View{}, fmt.Errorf("save session: %w", err)
	}

	if evt.Type == quiz.EventCheckAnswer {
		metrics.AnswersChecked.WithLabelValues(rec.QuizID, metrics.Bool(e.LastAnswerCorrect())).Inc()
	}
	if !before.Completed && rec.State.Completed {
		s.onCompleted(ctx, rec, e.Snapshot())
	}

	view := buildView(rec, e, true)
	s.broadcast(view)
	return view, nil
}

func (s *Service) lock(ctx context.Context, sessionID uuid.UUID) (func() error, error) {
	for attempt := 0; ; attempt++ {
		unlock, err := s.store.Lock(ctx, sessionID)
		if err == nil {
			return unlock, nil
		}
		if !errors.Is(err, ErrSessionBusy) || attempt >= s.opts.LockRetries {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.opts.LockRetryDelay):
		}
	}
}

func (s *Service) restore(ctx context.Context, sessionID uuid.UUID) (Record, *quiz.Engine, error) {
	rec, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Record{}, nil, err
	}
	def, err := s.catalog.Get(ctx, rec.QuizID)
	if err != nil {
		return Record{}, nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	e, err := quiz.Restore(def, rec.State)
	if err != nil {
		return Record{}, nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return rec, e, nil
}

// onCompleted runs once per transition into Completed. Failures are logged; the
// session itself is already saved.
func (s *Service) onCompleted(ctx context.Context, rec Record, snap quiz.Snapshot) {
	metrics.SessionsCompleted.WithLabelValues(rec.QuizID, snap.Tier).Inc()

	log := s.logger.With().
		Str("session_id", rec.ID.String()).
		Str("quiz_id", rec.QuizID).
		Int("score", snap.Score).
		Int("final_percent", snap.FinalPercent).
		Str("tier", snap.Tier).
		Logger()
	log.Info().Msg("session completed")

	if s.opts.Attempts != nil {
		_, err := s.opts.Attempts.Record(ctx, repository.AttemptRecord{
			SessionID:    rec.ID,
			QuizID:       rec.QuizID,
			UserID:       rec.UserID,
			Score:        snap.Score,
			Total:        snap.TotalQuestions,
			FinalPercent: snap.FinalPercent,
			Tier:         snap.Tier,
		})
		if err != nil {
			log.Error().Err(err).Msg("record attempt failed")
		}
	}

	if s.opts.Leaderboard == nil || rec.Anonymous() {
		return
	}
	req := leaderboard.RecordRequest{
		QuizID:  rec.QuizID,
		UserID:  rec.UserID,
		Percent: snap.FinalPercent,
	}
	if s.opts.Names != nil {
		names, err := s.opts.Names.DisplayNames(ctx, []uuid.UUID{rec.UserID})
		if err != nil {
			log.Warn().Err(err).Msg("display name lookup failed")
		}
		req.DisplayName = names[rec.UserID]
	}
	if err := s.opts.Leaderboard.RecordResult(ctx, req); err != nil {
		log.Error().Err(err).Msg("leaderboard update failed")
	}
}

func (s *Service) broadcast(view View) {
	if s.opts.Broadcaster == nil {
		return
	}
	msg, err := ws.NewMessage(ws.TypeSessionState, view)
	if err != nil {
		s.logger.Warn().Err(err).Msg("marshal session state failed")
		return
	}
	// No watchers is the common case for HTTP-only clients.
	_ = s.opts.Broadcaster.Broadcast(view.SessionID, msg)
}
