package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour, time.Second), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	rec := Record{
		ID:        uuid.New(),
		QuizID:    quiz.CareerFundamentalsID,
		State:     quiz.State{CurrentIndex: 1, SelectedOptionID: "q2c", Answered: true, Score: 2},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 5, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, rec))
	assert.Equal(t, time.Hour, mr.TTL("quiz:session:"+rec.ID.String()))

	got, err := store.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
	assert.True(t, got.Anonymous())

	require.NoError(t, store.Delete(ctx, rec.ID))
	_, err = store.Load(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	rec := Record{ID: uuid.New(), QuizID: "q"}
	require.NoError(t, store.Save(context.Background(), rec))

	mr.FastForward(2 * time.Hour)
	_, err := store.Load(context.Background(), rec.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreLock(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	unlock, err := store.Lock(ctx, id)
	require.NoError(t, err)

	_, err = store.Lock(ctx, id)
	assert.ErrorIs(t, err, ErrSessionBusy)

	require.NoError(t, unlock())
	unlock2, err := store.Lock(ctx, id)
	require.NoError(t, err)
	defer unlock2()
	assert.True(t, mr.Exists("quiz:session:lock:"+id.String()))
}

func TestRedisStoreUnlockKeepsForeignLock(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	unlock, err := store.Lock(ctx, id)
	require.NoError(t, err)

	// Our lock expired and someone else took it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("quiz:session:lock:"+id.String(), "other-holder"))

	require.NoError(t, unlock())
	got, err := mr.Get("quiz:session:lock:" + id.String())
	require.NoError(t, err)
	assert.Equal(t, "other-holder", got)
}
