package sqlcgen

import (
	"context"
)

const listQuizzes = `-- name: ListQuizzes :many
SELECT q.quiz_id, q.title, count(qq.question_id)::int AS question_count
FROM quizzes q
LEFT JOIN quiz_questions qq ON qq.quiz_id = q.quiz_id
GROUP BY q.quiz_id, q.title
ORDER BY q.title`

type ListQuizzesRow struct {
	QuizID        string `json:"quiz_id"`
	Title         string `json:"title"`
	QuestionCount int32  `json:"question_count"`
}

func (q *Queries) ListQuizzes(ctx context.Context) ([]ListQuizzesRow, error) {
	rows, err := q.db.Query(ctx, listQuizzes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListQuizzesRow
	for rows.Next() {
		var i ListQuizzesRow
		if err := rows.Scan(&i.QuizID, &i.Title, &i.QuestionCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getQuiz = `-- name: GetQuiz :one
SELECT quiz_id, title, created_at, updated_at FROM quizzes WHERE quiz_id = $1`

func (q *Queries) GetQuiz(ctx context.Context, quizID string) (Quiz, error) {
	row := q.db.QueryRow(ctx, getQuiz, quizID)
	var i Quiz
	err := row.Scan(&i.QuizID, &i.Title, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const listQuizQuestions = `-- name: ListQuizQuestions :many
SELECT quiz_id, question_id, position, prompt, explanation
FROM quiz_questions WHERE quiz_id = $1 ORDER BY position`

func (q *Queries) ListQuizQuestions(ctx context.Context, quizID string) ([]QuizQuestion, error) {
	rows, err := q.db.Query(ctx, listQuizQuestions, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuizQuestion
	for rows.Next() {
		var i QuizQuestion
		if err := rows.Scan(&i.QuizID, &i.QuestionID, &i.Position, &i.Prompt, &i.Explanation); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listQuizOptions = `-- name: ListQuizOptions :many
SELECT o.quiz_id, o.question_id, o.option_id, o.position, o.text, o.is_correct
FROM quiz_options o
JOIN quiz_questions qq ON qq.quiz_id = o.quiz_id AND qq.question_id = o.question_id
WHERE o.quiz_id = $1
ORDER BY qq.position, o.position`

func (q *Queries) ListQuizOptions(ctx context.Context, quizID string) ([]QuizOption, error) {
	rows, err := q.db.Query(ctx, listQuizOptions, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuizOption
	for rows.Next() {
		var i QuizOption
		if err := rows.Scan(&i.QuizID, &i.QuestionID, &i.OptionID, &i.Position, &i.Text, &i.IsCorrect); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const upsertQuiz = `-- name: UpsertQuiz :exec
INSERT INTO quizzes (quiz_id, title) VALUES ($1, $2)
ON CONFLICT (quiz_id) DO UPDATE SET title = EXCLUDED.title, updated_at = now()`

type UpsertQuizParams struct {
	QuizID string `json:"quiz_id"`
	Title  string `json:"title"`
}

func (q *Queries) UpsertQuiz(ctx context.Context, arg UpsertQuizParams) error {
	_, err := q.db.Exec(ctx, upsertQuiz, arg.QuizID, arg.Title)
	return err
}

const deleteQuizQuestions = `-- name: DeleteQuizQuestions :exec
DELETE FROM quiz_questions WHERE quiz_id = $1`

func (q *Queries) DeleteQuizQuestions(ctx context.Context, quizID string) error {
	_, err := q.db.Exec(ctx, deleteQuizQuestions, quizID)
	return err
}

const insertQuizQuestion = `-- name: InsertQuizQuestion :exec
INSERT INTO quiz_questions (quiz_id, question_id, position, prompt, explanation)
VALUES ($1, $2, $3, $4, $5)`

type InsertQuizQuestionParams struct {
	QuizID      string `json:"quiz_id"`
	QuestionID  string `json:"question_id"`
	Position    int32  `json:"position"`
	Prompt      string `json:"prompt"`
	Explanation string `json:"explanation"`
}

func (q *Queries) InsertQuizQuestion(ctx context.Context, arg InsertQuizQuestionParams) error {
	_, err := q.db.Exec(ctx, insertQuizQuestion, arg.QuizID, arg.QuestionID, arg.Position, arg.Prompt, arg.Explanation)
	return err
}

const insertQuizOption = `-- name: InsertQuizOption :exec
INSERT INTO quiz_options (quiz_id, question_id, option_id, position, text, is_correct)
VALUES ($1, $2, $3, $4, $5, $6)`

type InsertQuizOptionParams struct {
	QuizID     string `json:"quiz_id"`
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
	Position   int32  `json:"position"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

func (q *Queries) InsertQuizOption(ctx context.Context, arg InsertQuizOptionParams) error {
	_, err := q.db.Exec(ctx, insertQuizOption, arg.QuizID, arg.QuestionID, arg.OptionID, arg.Position, arg.Text, arg.IsCorrect)
	return err
}
