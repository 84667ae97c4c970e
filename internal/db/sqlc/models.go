package sqlcgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	UserID       pgtype.UUID        `json:"user_id"`
	Email        string             `json:"email"`
	PasswordHash pgtype.Text        `json:"password_hash"`
	DisplayName  string             `json:"display_name"`
	ResumeScore  int32              `json:"resume_score"`
	Jobs         []string           `json:"jobs"`
	AuthProvider string             `json:"auth_provider"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	LastLoginAt  pgtype.Timestamptz `json:"last_login_at"`
}

type Quiz struct {
	QuizID    string             `json:"quiz_id"`
	Title     string             `json:"title"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type QuizQuestion struct {
	QuizID      string `json:"quiz_id"`
	QuestionID  string `json:"question_id"`
	Position    int32  `json:"position"`
	Prompt      string `json:"prompt"`
	Explanation string `json:"explanation"`
}

type QuizOption struct {
	QuizID     string `json:"quiz_id"`
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
	Position   int32  `json:"position"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuizAttempt struct {
	AttemptID    pgtype.UUID        `json:"attempt_id"`
	SessionID    pgtype.UUID        `json:"session_id"`
	QuizID       string             `json:"quiz_id"`
	UserID       pgtype.UUID        `json:"user_id"`
	Score        int32              `json:"score"`
	Total        int32              `json:"total"`
	FinalPercent int32              `json:"final_percent"`
	Tier         string             `json:"tier"`
	CompletedAt  pgtype.Timestamptz `json:"completed_at"`
}
