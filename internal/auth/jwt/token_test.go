package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(TokenConfig{Secret: []byte("test-secret"), AccessTTL: time.Minute, RefreshTTL: time.Hour})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	user := User{ID: uuid.New(), Email: "ada@example.com", DisplayName: "Ada"}

	token, err := m.GenerateAccessToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenTypesAreNotInterchangeable(t *testing.T) {
	m := newTestManager()
	user := User{ID: uuid.New()}

	refresh, err := m.GenerateRefreshToken(user)
	require.NoError(t, err)
	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := m.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = m.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager()
	issued := time.Now().Add(-2 * time.Minute)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateAccessToken(User{ID: uuid.New()})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestWrongSecret(t *testing.T) {
	token, err := newTestManager().GenerateAccessToken(User{ID: uuid.New()})
	require.NoError(t, err)

	other := NewManager(TokenConfig{Secret: []byte("other-secret")})
	_, err = other.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
