package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/config"
	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
)

// Registrar mounts a feature's routes.
type Registrar interface {
	Register(mux *http.ServeMux)
}

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// Routes collects everything the API serves.
type Routes struct {
	// Checks run on /v1/ping, keyed by dependency name.
	Checks map[string]HealthCheck
	// Features register their own /v1 routes.
	Features []Registrar
	// QuizWS serves /ws/quiz; nil leaves the path unrouted.
	QuizWS http.HandlerFunc
	// Leaderboard serves GET /v1/quizzes/{quiz_id}/leaderboard.
	Leaderboard http.HandlerFunc
	// Auth injects claims for bearer tokens; nil serves every request anonymously.
	Auth func(http.Handler) http.Handler
}

// NewHTTPServer wires base routes (health, metrics) plus the feature routes.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, routes Routes) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewHandler(cfg, logger, routes),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler builds the full middleware chain around the route mux.
func NewHandler(cfg *config.App, logger zerolog.Logger, routes Routes) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := make(map[string]string, len(routes.Checks))
		healthy := true
		for name, check := range routes.Checks {
			if err := check(ctx); err != nil {
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				status[name] = "down"
				healthy = false
				continue
			}
			status[name] = "up"
		}
		if !healthy {
			httperrors.RespondErrorWithDetails(w, http.StatusBadGateway, httperrors.ErrCodeUpstreamError,
				"dependency unavailable", map[string]interface{}{"dependencies": status})
			return
		}
		httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"pong": true, "dependencies": status})
	})

	for _, f := range routes.Features {
		f.Register(mux)
	}
	if routes.Leaderboard != nil {
		mux.HandleFunc("GET /v1/quizzes/{quiz_id}/leaderboard", routes.Leaderboard)
	}
	if routes.QuizWS != nil {
		mux.HandleFunc("GET /ws/quiz", routes.QuizWS)
	}

	var handler http.Handler = recordRoute(mux)
	if routes.Auth != nil {
		handler = routes.Auth(handler)
	}
	handler = RequestLogger(logger)(handler)
	handler = CORS(cfg.CORS)(handler)
	return Recoverer(logger)(handler)
}
