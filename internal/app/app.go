package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/auth"
	"github.com/gokatarajesh/skill-horizon/internal/auth/jwt"
	"github.com/gokatarajesh/skill-horizon/internal/catalog"
	"github.com/gokatarajesh/skill-horizon/internal/config"
	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/jobs"
	"github.com/gokatarajesh/skill-horizon/internal/leaderboard"
	"github.com/gokatarajesh/skill-horizon/internal/resume"
	"github.com/gokatarajesh/skill-horizon/internal/resume/gemini"
	"github.com/gokatarajesh/skill-horizon/internal/server"
	"github.com/gokatarajesh/skill-horizon/internal/session"
	ws "github.com/gokatarajesh/skill-horizon/pkg/http/ws"
)

// Application aggregates shared infrastructure (DB, cache, job worker, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	jobs  *jobs.Manager
	http  *http.Server
}

// New connects Postgres and Redis and wires every service behind the HTTP server.
func New(ctx context.Context, cfg *config.App, logger zerolog.Logger) (*Application, error) {
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	queries := sqlcgen.New(pool)
	userRepo := repository.NewUserRepository(queries)
	attemptRepo := repository.NewAttemptRepository(queries)
	quizRepo := repository.NewQuizRepository(queries, repository.PoolTxRunner(pool))

	authSvc := auth.NewService(userRepo, auth.ServiceOptions{
		TokenConfig: jwt.TokenConfig{
			Secret:     []byte(cfg.Security.JWTSecret),
			AccessTTL:  cfg.Security.AccessTTL,
			RefreshTTL: cfg.Security.RefreshTTL,
			Issuer:     cfg.Name,
		},
		Redis:             redisClient,
		BcryptCost:        cfg.Security.BcryptCost,
		SignupResumeScore: cfg.Profile.SignupResumeScore,
		SignupJobs:        cfg.Profile.SignupJobs,
	}, logger)

	var oauthSvc *auth.OAuthService
	if cfg.OAuth.GoogleClientID != "" && cfg.OAuth.GoogleClientSecret != "" {
		redirectURL := cfg.OAuth.GoogleRedirectURL
		if redirectURL == "" {
			redirectURL = fmt.Sprintf("http://%s/v1/oauth/google/callback", cfg.HTTPAddr)
		}
		oauthSvc = auth.NewOAuthService(auth.OAuthConfig{
			ClientID:     cfg.OAuth.GoogleClientID,
			ClientSecret: cfg.OAuth.GoogleClientSecret,
			RedirectURL:  redirectURL,
		}, logger)
		logger.Info().Msg("google oauth enabled")
	} else {
		logger.Warn().Msg("OAuth not configured (missing GOOGLE_OAUTH_CLIENT_ID or GOOGLE_OAUTH_CLIENT_SECRET)")
	}

	catalogSvc := catalog.NewService(quizRepo, catalog.NewCache(redisClient, cfg.Session.CatalogCacheTTL), catalog.ServiceOptions{}, logger)

	leaderboardSvc := leaderboard.NewService(redisClient, attemptRepo, logger, leaderboard.ServiceOptions{
		DefaultLimit: cfg.Leaderboard.DefaultLimit,
		MaxLimit:     cfg.Leaderboard.MaxLimit,
	})

	hub := ws.NewHub(logger)
	sessionSvc := session.NewService(catalogSvc,
		session.NewRedisStore(redisClient, cfg.Session.TTL, cfg.Session.LockTTL),
		session.ServiceOptions{
			Attempts:    attemptRepo,
			Leaderboard: leaderboardSvc,
			Names:       userRepo,
			Broadcaster: hub,
		}, logger)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
		Model:   cfg.Gemini.Model,
		Timeout: cfg.Gemini.HTTPTimeout,
	}, logger)
	if !geminiClient.Enabled() {
		logger.Warn().Msg("GEMINI_API_KEY not set; resume analysis will answer 503")
	}
	analyzer := resume.NewAnalyzer(geminiClient, redisClient, cfg.Gemini.CacheTTL, logger)

	jobManager := jobs.NewManager(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}, jobs.Config{Concurrency: cfg.Jobs.Concurrency}, logger)
	jobStore := resume.NewJobStore(redisClient, cfg.Jobs.ResultTTL)
	jobManager.Handle(resume.TaskAnalyze, resume.NewWorker(analyzer, jobStore, logger))
	jobQueue := resume.NewJobQueue(jobStore, jobManager.Client(), cfg.Jobs.MaxRetry, logger)

	upgrader := server.NewWSUpgrader(cfg.CORS)
	apiServer := server.NewHTTPServer(cfg, logger, server.Routes{
		Checks: map[string]server.HealthCheck{
			"postgres": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		Features: []server.Registrar{
			auth.NewHTTPHandlers(authSvc, oauthSvc, logger),
			session.NewHTTPHandler(sessionSvc, catalogSvc, attemptRepo, logger),
			resume.NewHTTPHandler(analyzer, jobQueue, cfg.Gemini.MaxUpload, logger),
		},
		QuizWS:      session.NewWSHandler(sessionSvc, hub, upgrader, logger).HandleWebSocket,
		Leaderboard: leaderboard.NewHTTPHandler(leaderboardSvc, logger).HandleGet,
		Auth:        auth.Middleware(authSvc, logger),
	})

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		jobs:   jobManager,
		http:   apiServer,
	}, nil
}

// Run starts the job worker and HTTP server, then waits for a termination signal.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	if err := a.jobs.Start(); err != nil {
		a.close()
		return err
	}

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}
	a.jobs.Shutdown()
	a.close()

	a.logger.Info().Msg("shutdown complete")
	return runErr
}

func (a *Application) close() {
	a.pool.Close()
	if err := a.redis.Close(); err != nil {
		a.logger.Error().Err(err).Msg("redis shutdown error")
	}
}
