package sqlcgen

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `user_id, email, password_hash, display_name, resume_score, jobs, auth_provider, created_at, last_login_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.UserID,
		&i.Email,
		&i.PasswordHash,
		&i.DisplayName,
		&i.ResumeScore,
		&i.Jobs,
		&i.AuthProvider,
		&i.CreatedAt,
		&i.LastLoginAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (email, password_hash, display_name, resume_score, jobs, auth_provider)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

type CreateUserParams struct {
	Email        string      `json:"email"`
	PasswordHash pgtype.Text `json:"password_hash"`
	DisplayName  string      `json:"display_name"`
	ResumeScore  int32       `json:"resume_score"`
	Jobs         []string    `json:"jobs"`
	AuthProvider string      `json:"auth_provider"`
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.Email,
		arg.PasswordHash,
		arg.DisplayName,
		arg.ResumeScore,
		arg.Jobs,
		arg.AuthProvider,
	)
	return scanUser(row)
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

func (q *Queries) GetUserByID(ctx context.Context, userID pgtype.UUID) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByID, userID))
}

const getUsersByIDs = `-- name: GetUsersByIDs :many
SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1::uuid[])`

func (q *Queries) GetUsersByIDs(ctx context.Context, userIDs []pgtype.UUID) ([]User, error) {
	rows, err := q.db.Query(ctx, getUsersByIDs, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateUserLogin = `-- name: UpdateUserLogin :exec
UPDATE users SET last_login_at = now() WHERE user_id = $1`

func (q *Queries) UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, updateUserLogin, userID)
	return err
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users SET resume_score = $2, jobs = $3
WHERE user_id = $1
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	UserID      pgtype.UUID `json:"user_id"`
	ResumeScore int32       `json:"resume_score"`
	Jobs        []string    `json:"jobs"`
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserProfile, arg.UserID, arg.ResumeScore, arg.Jobs))
}
