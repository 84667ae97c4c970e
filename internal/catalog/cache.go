package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

const defaultCacheTTL = 10 * time.Minute

// Cache keeps validated quiz definitions in Redis to offload Postgres.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ DefinitionCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(quizID string) string {
	return "quizdef:" + quizID
}

// Get returns nil without error on a cache miss.
func (c *Cache) Get(ctx context.Context, quizID string) (*quiz.Definition, error) {
	data, err := c.client.Get(ctx, c.key(quizID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var def quiz.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return &def, nil
}

func (c *Cache) Set(ctx context.Context, def quiz.Definition) error {
	data, err := json.Marshal(def)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(def.ID), data, c.ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, quizID string) error {
	return c.client.Del(ctx, c.key(quizID)).Err()
}
