package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

type quizStore interface {
	ListQuizzes(ctx context.Context) ([]sqlcgen.ListQuizzesRow, error)
	GetQuiz(ctx context.Context, quizID string) (sqlcgen.Quiz, error)
	ListQuizQuestions(ctx context.Context, quizID string) ([]sqlcgen.QuizQuestion, error)
	ListQuizOptions(ctx context.Context, quizID string) ([]sqlcgen.QuizOption, error)
	UpsertQuiz(ctx context.Context, arg sqlcgen.UpsertQuizParams) error
	DeleteQuizQuestions(ctx context.Context, quizID string) error
	InsertQuizQuestion(ctx context.Context, arg sqlcgen.InsertQuizQuestionParams) error
	InsertQuizOption(ctx context.Context, arg sqlcgen.InsertQuizOptionParams) error
}

// TxRunner runs fn against a store bound to a single transaction.
type TxRunner func(ctx context.Context, fn func(store quizStore) error) error

// PoolTxRunner runs quiz writes inside a pgx transaction.
func PoolTxRunner(pool *pgxpool.Pool) TxRunner {
	return func(ctx context.Context, fn func(store quizStore) error) error {
		return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
			return fn(sqlcgen.New(tx))
		})
	}
}

// QuizRepository loads and stores quiz definitions.
type QuizRepository struct {
	store quizStore
	inTx  TxRunner
}

// NewQuizRepository builds a repository; inTx may be nil, in which case writes are not transactional.
func NewQuizRepository(store quizStore, inTx TxRunner) *QuizRepository {
	if inTx == nil {
		inTx = func(ctx context.Context, fn func(store quizStore) error) error { return fn(store) }
	}
	return &QuizRepository{store: store, inTx: inTx}
}

// List returns quiz summaries ordered by title.
func (r *QuizRepository) List(ctx context.Context) ([]sqlcgen.ListQuizzesRow, error) {
	return r.store.ListQuizzes(ctx)
}

// Load assembles the full definition of a quiz.
func (r *QuizRepository) Load(ctx context.Context, quizID string) (quiz.Definition, error) {
	head, err := r.store.GetQuiz(ctx, quizID)
	if err != nil {
		return quiz.Definition{}, notFound(err)
	}
	questions, err := r.store.ListQuizQuestions(ctx, quizID)
	if err != nil {
		return quiz.Definition{}, fmt.Errorf("list questions: %w", err)
	}
	options, err := r.store.ListQuizOptions(ctx, quizID)
	if err != nil {
		return quiz.Definition{}, fmt.Errorf("list options: %w", err)
	}

	def := quiz.Definition{
		ID:        head.QuizID,
		Title:     head.Title,
		Questions: make([]quiz.Question, 0, len(questions)),
	}
	index := make(map[string]int, len(questions))
	for _, q := range questions {
		index[q.QuestionID] = len(def.Questions)
		def.Questions = append(def.Questions, quiz.Question{
			ID:          q.QuestionID,
			Prompt:      q.Prompt,
			Explanation: q.Explanation,
		})
	}
	for _, o := range options {
		i, ok := index[o.QuestionID]
		if !ok {
			continue
		}
		def.Questions[i].Options = append(def.Questions[i].Options, quiz.Option{
			ID:        o.OptionID,
			Text:      o.Text,
			IsCorrect: o.IsCorrect,
		})
	}
	return def, nil
}

// Save replaces a quiz definition atomically.
func (r *QuizRepository) Save(ctx context.Context, def quiz.Definition) error {
	return r.inTx(ctx, func(store quizStore) error {
		if err := store.UpsertQuiz(ctx, sqlcgen.UpsertQuizParams{QuizID: def.ID, Title: def.Title}); err != nil {
			return fmt.Errorf("upsert quiz: %w", err)
		}
		if err := store.DeleteQuizQuestions(ctx, def.ID); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		for qi, q := range def.Questions {
			if err := store.InsertQuizQuestion(ctx, sqlcgen.InsertQuizQuestionParams{
				QuizID:      def.ID,
				QuestionID:  q.ID,
				Position:    int32(qi),
				Prompt:      q.Prompt,
				Explanation: q.Explanation,
			}); err != nil {
				return fmt.Errorf("insert question %s: %w", q.ID, err)
			}
			for oi, o := range q.Options {
				if err := store.InsertQuizOption(ctx, sqlcgen.InsertQuizOptionParams{
					QuizID:     def.ID,
					QuestionID: q.ID,
					OptionID:   o.ID,
					Position:   int32(oi),
					Text:       o.Text,
					IsCorrect:  o.IsCorrect,
				}); err != nil {
					return fmt.Errorf("insert option %s/%s: %w", q.ID, o.ID, err)
				}
			}
		}
		return nil
	})
}
