package leaderboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
)

// HTTPHandler exposes REST endpoints for leaderboard queries.
type HTTPHandler struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandler constructs a leaderboard HTTP handler.
func NewHTTPHandler(svc *Service, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:    svc,
		logger: logger.With().Str("component", "leaderboard_http").Logger(),
	}
}

// HandleGet responds with the ranking of one quiz.
// Route: GET /v1/quizzes/{quiz_id}/leaderboard?limit=10
func (h *HTTPHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	quizID := r.PathValue("quiz_id")
	if quizID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "quiz id required", "quiz_id")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "limit must be a positive integer", "limit")
			return
		}
		limit = parsed
	}

	entries, source, err := h.svc.Top(r.Context(), quizID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("quiz_id", quizID).Msg("leaderboard fetch failed")
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeLeaderboardFetchFailed, "failed to fetch leaderboard")
		return
	}
	if entries == nil {
		entries = []Entry{}
	}

	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"quiz_id":     quizID,
		"top":         entries,
		"source":      source,
		"retrievedAt": time.Now().UTC().Format(time.RFC3339),
	})
}
