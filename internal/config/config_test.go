package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "horizon")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "horizon")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("JWT_SECRET", "jwt-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "skill-horizon", cfg.Name)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 70, cfg.Profile.SignupResumeScore)
	assert.Equal(t, []string{"Entry Level Developer", "Junior Frontend Developer"}, cfg.Profile.SignupJobs)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.Contains(t, cfg.Postgres.ConnString(), "dbname=horizon")
}

func TestLoadRequiresSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load(context.Background())
	assert.Error(t, err)
}
