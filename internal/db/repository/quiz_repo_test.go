package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

// memoryQuizStore keeps rows in slices, mimicking the ORDER BY of the real queries.
type memoryQuizStore struct {
	quizzes   map[string]sqlcgen.Quiz
	questions []sqlcgen.QuizQuestion
	options   []sqlcgen.QuizOption
	failOn    string
}

func newMemoryQuizStore() *memoryQuizStore {
	return &memoryQuizStore{quizzes: map[string]sqlcgen.Quiz{}}
}

func (m *memoryQuizStore) ListQuizzes(ctx context.Context) ([]sqlcgen.ListQuizzesRow, error) {
	var rows []sqlcgen.ListQuizzesRow
	for id, q := range m.quizzes {
		count := 0
		for _, qq := range m.questions {
			if qq.QuizID == id {
				count++
			}
		}
		rows = append(rows, sqlcgen.ListQuizzesRow{QuizID: id, Title: q.Title, QuestionCount: int32(count)})
	}
	return rows, nil
}

func (m *memoryQuizStore) GetQuiz(ctx context.Context, quizID string) (sqlcgen.Quiz, error) {
	q, ok := m.quizzes[quizID]
	if !ok {
		return sqlcgen.Quiz{}, pgx.ErrNoRows
	}
	return q, nil
}

func (m *memoryQuizStore) ListQuizQuestions(ctx context.Context, quizID string) ([]sqlcgen.QuizQuestion, error) {
	var out []sqlcgen.QuizQuestion
	for _, q := range m.questions {
		if q.QuizID == quizID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memoryQuizStore) ListQuizOptions(ctx context.Context, quizID string) ([]sqlcgen.QuizOption, error) {
	var out []sqlcgen.QuizOption
	for _, o := range m.options {
		if o.QuizID == quizID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memoryQuizStore) UpsertQuiz(ctx context.Context, arg sqlcgen.UpsertQuizParams) error {
	m.quizzes[arg.QuizID] = sqlcgen.Quiz{QuizID: arg.QuizID, Title: arg.Title}
	return nil
}

func (m *memoryQuizStore) DeleteQuizQuestions(ctx context.Context, quizID string) error {
	qs := m.questions[:0]
	for _, q := range m.questions {
		if q.QuizID != quizID {
			qs = append(qs, q)
		}
	}
	m.questions = qs
	kept := m.options[:0]
	for _, o := range m.options {
		if o.QuizID != quizID {
			kept = append(kept, o)
		}
	}
	m.options = kept
	return nil
}

func (m *memoryQuizStore) InsertQuizQuestion(ctx context.Context, arg sqlcgen.InsertQuizQuestionParams) error {
	m.questions = append(m.questions, sqlcgen.QuizQuestion(arg))
	return nil
}

func (m *memoryQuizStore) InsertQuizOption(ctx context.Context, arg sqlcgen.InsertQuizOptionParams) error {
	if m.failOn != "" && arg.OptionID == m.failOn {
		return errors.New("constraint violation")
	}
	m.options = append(m.options, sqlcgen.QuizOption(arg))
	return nil
}

func TestQuizRepository_SaveThenLoad(t *testing.T) {
	store := newMemoryQuizStore()
	repo := NewQuizRepository(store, nil)
	def := quiz.CareerFundamentals()

	require.NoError(t, repo.Save(context.Background(), def))

	got, err := repo.Load(context.Background(), def.ID)
	require.NoError(t, err)
	assert.Equal(t, def, got)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int32(3), list[0].QuestionCount)
}

func TestQuizRepository_SaveReplacesQuestions(t *testing.T) {
	store := newMemoryQuizStore()
	repo := NewQuizRepository(store, nil)
	def := quiz.CareerFundamentals()
	require.NoError(t, repo.Save(context.Background(), def))

	def.Questions = def.Questions[:1]
	require.NoError(t, repo.Save(context.Background(), def))

	got, err := repo.Load(context.Background(), def.ID)
	require.NoError(t, err)
	assert.Len(t, got.Questions, 1)
	assert.Len(t, got.Questions[0].Options, 4)
}

func TestQuizRepository_LoadMissing(t *testing.T) {
	repo := NewQuizRepository(newMemoryQuizStore(), nil)
	_, err := repo.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuizRepository_SaveUsesTxRunner(t *testing.T) {
	store := newMemoryQuizStore()
	store.failOn = "q2c"
	var ran bool
	runner := func(ctx context.Context, fn func(store quizStore) error) error {
		ran = true
		return fn(store)
	}
	repo := NewQuizRepository(store, runner)

	err := repo.Save(context.Background(), quiz.CareerFundamentals())
	assert.True(t, ran)
	assert.ErrorContains(t, err, "insert option q2/q2c")
}
