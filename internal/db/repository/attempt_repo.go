package repository

import (
	"context"

	"github.com/google/uuid"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
)

type attemptStore interface {
	InsertQuizAttempt(ctx context.Context, arg sqlcgen.InsertQuizAttemptParams) (sqlcgen.QuizAttempt, error)
	ListUserAttempts(ctx context.Context, arg sqlcgen.ListUserAttemptsParams) ([]sqlcgen.QuizAttempt, error)
	TopQuizScores(ctx context.Context, arg sqlcgen.TopQuizScoresParams) ([]sqlcgen.TopQuizScoresRow, error)
}

// AttemptRecord is a completed quiz run.
type AttemptRecord struct {
	SessionID    uuid.UUID
	QuizID       string
	UserID       uuid.UUID // uuid.Nil for anonymous sessions
	Score        int
	Total        int
	FinalPercent int
	Tier         string
}

// AttemptRepository persists completed quiz sessions.
type AttemptRepository struct {
	store attemptStore
}

// NewAttemptRepository constructs a new attempt repository.
func NewAttemptRepository(store attemptStore) *AttemptRepository {
	return &AttemptRepository{store: store}
}

// Record inserts a completed attempt.
func (r *AttemptRepository) Record(ctx context.Context, rec AttemptRecord) (sqlcgen.QuizAttempt, error) {
	return r.store.InsertQuizAttempt(ctx, sqlcgen.InsertQuizAttemptParams{
		SessionID:    PGUUID(rec.SessionID),
		QuizID:       rec.QuizID,
		UserID:       NullableUUID(rec.UserID),
		Score:        int32(rec.Score),
		Total:        int32(rec.Total),
		FinalPercent: int32(rec.FinalPercent),
		Tier:         rec.Tier,
	})
}

// maxListLimit bounds every LIMIT handed to Postgres.
const maxListLimit = 100

// ListForUser returns the user's most recent attempts.
func (r *AttemptRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]sqlcgen.QuizAttempt, error) {
	if limit <= 0 {
		limit = 20
	}
	limit = min(limit, maxListLimit)
	return r.store.ListUserAttempts(ctx, sqlcgen.ListUserAttemptsParams{
		UserID: PGUUID(userID),
		Limit:  int32(limit),
	})
}

// TopForQuiz ranks signed-in users by their best percent on a quiz.
func (r *AttemptRepository) TopForQuiz(ctx context.Context, quizID string, limit int) ([]sqlcgen.TopQuizScoresRow, error) {
	if limit <= 0 {
		limit = 10
	}
	limit = min(limit, maxListLimit)
	return r.store.TopQuizScores(ctx, sqlcgen.TopQuizScoresParams{
		QuizID: quizID,
		Limit:  int32(limit),
	})
}
