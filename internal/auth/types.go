package auth

import (
	"github.com/google/uuid"
)

// User represents an authenticated account.
type User struct {
	ID          uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name"`
}

// Profile is the account data shown on the dashboard.
type Profile struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	ResumeScore int       `json:"resume_score"`
	Jobs        []string  `json:"jobs"`
}

// TokenPair holds access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SignupRequest for email/password registration.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest for email/password authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest patches profile fields; nil fields are left alone.
type UpdateProfileRequest struct {
	ResumeScore *int     `json:"resume_score,omitempty"`
	Jobs        []string `json:"jobs,omitempty"`
}

// Auth providers stored on the user row.
const (
	ProviderPassword    = "password"
	OAuthProviderGoogle = "google"
)
