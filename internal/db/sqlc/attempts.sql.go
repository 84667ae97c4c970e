package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const attemptColumns = `attempt_id, session_id, quiz_id, user_id, score, total, final_percent, tier, completed_at`

func scanAttempt(row interface{ Scan(dest ...any) error }) (QuizAttempt, error) {
	var i QuizAttempt
	err := row.Scan(
		&i.AttemptID,
		&i.SessionID,
		&i.QuizID,
		&i.UserID,
		&i.Score,
		&i.Total,
		&i.FinalPercent,
		&i.Tier,
		&i.CompletedAt,
	)
	return i, err
}

const insertQuizAttempt = `-- name: InsertQuizAttempt :one
INSERT INTO quiz_attempts (session_id, quiz_id, user_id, score, total, final_percent, tier)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + attemptColumns

type InsertQuizAttemptParams struct {
	SessionID    pgtype.UUID `json:"session_id"`
	QuizID       string      `json:"quiz_id"`
	UserID       pgtype.UUID `json:"user_id"`
	Score        int32       `json:"score"`
	Total        int32       `json:"total"`
	FinalPercent int32       `json:"final_percent"`
	Tier         string      `json:"tier"`
}

func (q *Queries) InsertQuizAttempt(ctx context.Context, arg InsertQuizAttemptParams) (QuizAttempt, error) {
	row := q.db.QueryRow(ctx, insertQuizAttempt,
		arg.SessionID,
		arg.QuizID,
		arg.UserID,
		arg.Score,
		arg.Total,
		arg.FinalPercent,
		arg.Tier,
	)
	return scanAttempt(row)
}

const listUserAttempts = `-- name: ListUserAttempts :many
SELECT ` + attemptColumns + `
FROM quiz_attempts WHERE user_id = $1
ORDER BY completed_at DESC
LIMIT $2`

type ListUserAttemptsParams struct {
	UserID pgtype.UUID `json:"user_id"`
	Limit  int32       `json:"limit"`
}

func (q *Queries) ListUserAttempts(ctx context.Context, arg ListUserAttemptsParams) ([]QuizAttempt, error) {
	rows, err := q.db.Query(ctx, listUserAttempts, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []QuizAttempt
	for rows.Next() {
		i, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const topQuizScores = `-- name: TopQuizScores :many
SELECT a.user_id, u.display_name, MAX(a.final_percent)::int AS best_percent, COUNT(*)::int AS attempts
FROM quiz_attempts a
JOIN users u ON u.user_id = a.user_id
WHERE a.quiz_id = $1
GROUP BY a.user_id, u.display_name
ORDER BY best_percent DESC, attempts ASC
LIMIT $2`

type TopQuizScoresParams struct {
	QuizID string `json:"quiz_id"`
	Limit  int32  `json:"limit"`
}

type TopQuizScoresRow struct {
	UserID      pgtype.UUID `json:"user_id"`
	DisplayName string      `json:"display_name"`
	BestPercent int32       `json:"best_percent"`
	Attempts    int32       `json:"attempts"`
}

func (q *Queries) TopQuizScores(ctx context.Context, arg TopQuizScoresParams) ([]TopQuizScoresRow, error) {
	rows, err := q.db.Query(ctx, topQuizScores, arg.QuizID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TopQuizScoresRow
	for rows.Next() {
		var i TopQuizScoresRow
		if err := rows.Scan(&i.UserID, &i.DisplayName, &i.BestPercent, &i.Attempts); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
