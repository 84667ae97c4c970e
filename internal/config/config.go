package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"skill-horizon"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	LogLevel                string        `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Postgres    Postgres
	Redis       Redis
	Security    Security
	Session     Session
	Leaderboard Leaderboard
	Gemini      Gemini
	Jobs        Jobs
	Profile     Profile
	OAuth       OAuth
	CORS        CORS
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST,notEmpty"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER,notEmpty"`
	Password string `env:"PG_PASSWORD,notEmpty"`
	Database string `env:"PG_DATABASE,notEmpty"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// ConnString renders the pgx key/value DSN.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode, p.MaxConns)
}

// Redis holds cache, session and job queue configuration.
type Redis struct {
	Addr     string `env:"REDIS_ADDR,notEmpty"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Security stores secrets for signing and auth.
type Security struct {
	JWTSecret  string        `env:"JWT_SECRET,notEmpty"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`
}

// Session governs quiz session storage and the quiz definition cache.
type Session struct {
	TTL             time.Duration `env:"QUIZ_SESSION_TTL" envDefault:"2h"`
	LockTTL         time.Duration `env:"QUIZ_SESSION_LOCK_TTL" envDefault:"5s"`
	CatalogCacheTTL time.Duration `env:"QUIZ_CATALOG_CACHE_TTL" envDefault:"10m"`
}

// Leaderboard governs per-quiz ranking.
type Leaderboard struct {
	DefaultLimit int `env:"LEADERBOARD_DEFAULT_LIMIT" envDefault:"10"`
	MaxLimit     int `env:"LEADERBOARD_MAX_LIMIT" envDefault:"100"`
}

// Gemini configures the generative text endpoint used for resume analysis.
type Gemini struct {
	APIKey      string        `env:"GEMINI_API_KEY"`
	BaseURL     string        `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta"`
	Model       string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash-latest"`
	HTTPTimeout time.Duration `env:"GEMINI_HTTP_TIMEOUT" envDefault:"20s"`
	CacheTTL    time.Duration `env:"RESUME_ANALYSIS_CACHE_TTL" envDefault:"24h"`
	MaxUpload   int64         `env:"RESUME_MAX_UPLOAD_BYTES" envDefault:"2097152"`
}

// Jobs configures the asynq worker.
type Jobs struct {
	Concurrency int           `env:"JOBS_CONCURRENCY" envDefault:"4"`
	ResultTTL   time.Duration `env:"JOBS_RESULT_TTL" envDefault:"24h"`
	MaxRetry    int           `env:"JOBS_MAX_RETRY" envDefault:"3"`
}

// Profile holds the defaults applied to freshly signed-up accounts.
type Profile struct {
	SignupResumeScore int      `env:"PROFILE_SIGNUP_RESUME_SCORE" envDefault:"70"`
	SignupJobs        []string `env:"PROFILE_SIGNUP_JOBS" envSeparator:"," envDefault:"Entry Level Developer,Junior Frontend Developer"`
}

// OAuth holds OAuth provider configuration.
type OAuth struct {
	GoogleClientID     string `env:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_OAUTH_REDIRECT_URL"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:8080,http://localhost:5173"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS" envSeparator:"," envDefault:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS" envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS" envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE" envDefault:"3600"`
}

// Load parses environment variables into App config. Optional integrations
// (Gemini, OAuth) stay disabled when their variables are unset.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
