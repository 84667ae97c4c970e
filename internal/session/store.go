package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

var (
	// ErrSessionNotFound is returned for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionBusy is returned when another request holds the session lock.
	ErrSessionBusy = errors.New("session busy")
)

// Record is the persisted form of one quiz session.
type Record struct {
	ID        uuid.UUID  `json:"id"`
	QuizID    string     `json:"quiz_id"`
	UserID    uuid.UUID  `json:"user_id"`
	State     quiz.State `json:"state"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Anonymous reports whether the session was started without an account.
func (r Record) Anonymous() bool {
	return r.UserID == uuid.Nil
}

// Store persists session records outside process memory.
type Store interface {
	Load(ctx context.Context, id uuid.UUID) (Record, error)
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, id uuid.UUID) error
	// Lock acquires the per-session mutex. ErrSessionBusy means someone else holds it.
	Lock(ctx context.Context, id uuid.UUID) (unlock func() error, err error)
}

// unlockScript ensures we only delete our own lock.
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end
`)

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	redis   *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store backed by Redis.
func NewRedisStore(client *redis.Client, ttl, lockTTL time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if lockTTL <= 0 {
		lockTTL = 5 * time.Second
	}
	return &RedisStore{redis: client, ttl: ttl, lockTTL: lockTTL}
}

func sessionKey(id uuid.UUID) string {
	return "quiz:session:" + id.String()
}

func lockKey(id uuid.UUID) string {
	return "quiz:session:lock:" + id.String()
}

func (s *RedisStore) Load(ctx context.Context, id uuid.UUID) (Record, error) {
	data, err := s.redis.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return Record{}, ErrSessionNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("get session: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.redis.Set(ctx, sessionKey(rec.ID), data, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.redis.Del(ctx, sessionKey(id)).Err()
}

func (s *RedisStore) Lock(ctx context.Context, id uuid.UUID) (func() error, error) {
	key := lockKey(id)
	token := uuid.NewString()

	acquired, err := s.redis.SetNX(ctx, key, token, s.lockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !acquired {
		return nil, ErrSessionBusy
	}

	unlock := func() error {
		// The request context may already be done; release regardless.
		return unlockScript.Run(context.WithoutCancel(ctx), s.redis, []string{key}, token).Err()
	}
	return unlock, nil
}
