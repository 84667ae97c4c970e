package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when an insert hits a unique constraint.
	ErrAlreadyExists = errors.New("already exists")
)

const uniqueViolation = "23505"

type userStore interface {
	CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetUserByID(ctx context.Context, userID pgtype.UUID) (sqlcgen.User, error)
	GetUsersByIDs(ctx context.Context, userIDs []pgtype.UUID) ([]sqlcgen.User, error)
	UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error
	UpdateUserProfile(ctx context.Context, arg sqlcgen.UpdateUserProfileParams) (sqlcgen.User, error)
}

// UserRepository exposes typed DB operations required by auth and profile flows.
type UserRepository struct {
	store userStore
}

// NewUserRepository wraps sqlc Queries for user-specific operations.
func NewUserRepository(store userStore) *UserRepository {
	return &UserRepository{store: store}
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	u, err := r.store.CreateUser(ctx, params)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return u, ErrAlreadyExists
	}
	return u, err
}

// GetByEmail fetches a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (sqlcgen.User, error) {
	u, err := r.store.GetUserByEmail(ctx, email)
	return u, notFound(err)
}

// GetByID fetches a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error) {
	u, err := r.store.GetUserByID(ctx, PGUUID(userID))
	return u, notFound(err)
}

// DisplayNames resolves user ids to display names; unknown ids are absent from the map.
func (r *UserRepository) DisplayNames(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	ids := make([]pgtype.UUID, 0, len(userIDs))
	for _, id := range userIDs {
		ids = append(ids, PGUUID(id))
	}
	users, err := r.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for _, u := range users {
		out[UUIDFrom(u.UserID)] = u.DisplayName
	}
	return out, nil
}

// UpdateLogin records the last login timestamp.
func (r *UserRepository) UpdateLogin(ctx context.Context, userID uuid.UUID) error {
	return r.store.UpdateUserLogin(ctx, PGUUID(userID))
}

// UpdateProfile replaces the resume score and job list.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, resumeScore int, jobs []string) (sqlcgen.User, error) {
	if jobs == nil {
		jobs = []string{}
	}
	u, err := r.store.UpdateUserProfile(ctx, sqlcgen.UpdateUserProfileParams{
		UserID:      PGUUID(userID),
		ResumeScore: int32(resumeScore),
		Jobs:        jobs,
	})
	return u, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
