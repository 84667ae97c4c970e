package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, arg sqlcgen.CreateUserParams) (sqlcgen.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (sqlcgen.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, userID pgtype.UUID) (sqlcgen.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) GetUsersByIDs(ctx context.Context, userIDs []pgtype.UUID) ([]sqlcgen.User, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).([]sqlcgen.User), args.Error(1)
}

func (m *mockUserStore) UpdateUserLogin(ctx context.Context, userID pgtype.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockUserStore) UpdateUserProfile(ctx context.Context, arg sqlcgen.UpdateUserProfileParams) (sqlcgen.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(sqlcgen.User), args.Error(1)
}

func TestUserRepository_Create(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	params := sqlcgen.CreateUserParams{
		Email:        "user@example.com",
		PasswordHash: pgtype.Text{String: "hashed", Valid: true},
		DisplayName:  "Ace",
		ResumeScore:  70,
		Jobs:         []string{"Entry Level Developer"},
		AuthProvider: "password",
	}
	expect := sqlcgen.User{UserID: uuidFromByte(1), Email: "user@example.com", DisplayName: "Ace"}
	store.On("CreateUser", mock.Anything, params).Return(expect, nil)

	got, err := repo.Create(context.Background(), params)
	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestUserRepository_CreateMapsUniqueViolation(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	store.On("CreateUser", mock.Anything, mock.Anything).
		Return(sqlcgen.User{}, &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), sqlcgen.CreateUserParams{Email: "ada@example.com"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUserRepository_GetByEmailMapsNoRows(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)
	store.On("GetUserByEmail", mock.Anything, "missing@example.com").Return(sqlcgen.User{}, pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepository_DisplayNames(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	ids := []pgtype.UUID{uuidFromByte(1), uuidFromByte(2)}
	store.On("GetUsersByIDs", mock.Anything, ids).Return([]sqlcgen.User{
		{UserID: uuidFromByte(1), DisplayName: "Ada"},
	}, nil)

	names, err := repo.DisplayNames(context.Background(), []uuid.UUID{plainUUID(1), plainUUID(2)})
	assert.NoError(t, err)
	assert.Equal(t, map[uuid.UUID]string{plainUUID(1): "Ada"}, names)
}

func TestUserRepository_UpdateProfileNormalizesNilJobs(t *testing.T) {
	store := new(mockUserStore)
	repo := NewUserRepository(store)

	params := sqlcgen.UpdateUserProfileParams{UserID: uuidFromByte(3), ResumeScore: 85, Jobs: []string{}}
	store.On("UpdateUserProfile", mock.Anything, params).Return(sqlcgen.User{ResumeScore: 85}, nil)

	got, err := repo.UpdateProfile(context.Background(), plainUUID(3), 85, nil)
	assert.NoError(t, err)
	assert.Equal(t, int32(85), got.ResumeScore)
}

func TestNullableUUID(t *testing.T) {
	assert.False(t, NullableUUID(uuid.Nil).Valid)
	assert.Equal(t, plainUUID(9), UUIDFrom(NullableUUID(plainUUID(9))))
}
