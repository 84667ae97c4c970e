package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/auth"
	"github.com/gokatarajesh/skill-horizon/internal/catalog"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
)

type catalogReader interface {
	List(ctx context.Context) ([]catalog.Summary, error)
	Get(ctx context.Context, quizID string) (quiz.Definition, error)
}

type attemptHistory interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]sqlcgen.QuizAttempt, error)
}

// HTTPHandler exposes quiz catalog and session endpoints.
type HTTPHandler struct {
	svc     *Service
	catalog catalogReader
	history attemptHistory
	logger  zerolog.Logger
}

// NewHTTPHandler wires the REST surface. history may be nil.
func NewHTTPHandler(svc *Service, catalog catalogReader, history attemptHistory, logger zerolog.Logger) *HTTPHandler {
	return &HTTPHandler{
		svc:     svc,
		catalog: catalog,
		history: history,
		logger:  logger.With().Str("component", "session_http").Logger(),
	}
}

// Register mounts the routes on mux.
func (h *HTTPHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/quizzes", h.ListQuizzes)
	mux.HandleFunc("GET /v1/quizzes/{quiz_id}", h.GetQuiz)
	mux.HandleFunc("POST /v1/quizzes/{quiz_id}/sessions", h.StartSession)
	mux.HandleFunc("GET /v1/sessions/{session_id}", h.GetSession)
	mux.HandleFunc("POST /v1/sessions/{session_id}/select", h.SelectOption)
	mux.HandleFunc("POST /v1/sessions/{session_id}/check", h.event(quiz.EventCheckAnswer))
	mux.HandleFunc("POST /v1/sessions/{session_id}/next", h.event(quiz.EventNextQuestion))
	mux.HandleFunc("POST /v1/sessions/{session_id}/restart", h.event(quiz.EventRestart))
	if h.history != nil {
		mux.Handle("GET /v1/users/me/attempts", auth.RequireAuth(http.HandlerFunc(h.ListAttempts)))
	}
}

type quizResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
}

// ListQuizzes handles GET /v1/quizzes.
func (h *HTTPHandler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	list, err := h.catalog.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("list quizzes failed")
		httperrors.RespondInternalError(w, "failed to list quizzes")
		return
	}
	if list == nil {
		list = []catalog.Summary{}
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"quizzes": list})
}

// GetQuiz handles GET /v1/quizzes/{quiz_id}. Correct answers are never included.
func (h *HTTPHandler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	def, err := h.catalog.Get(r.Context(), r.PathValue("quiz_id"))
	if err != nil {
		h.respondErr(w, err)
		return
	}
	resp := quizResponse{ID: def.ID, Title: def.Title, Questions: make([]QuestionView, len(def.Questions))}
	for i, q := range def.Questions {
		opts := make([]OptionView, len(q.Options))
		for j, o := range q.Options {
			opts[j] = OptionView{ID: o.ID, Text: o.Text}
		}
		resp.Questions[i] = QuestionView{ID: q.ID, Prompt: q.Prompt, Options: opts}
	}
	httperrors.RespondJSON(w, http.StatusOK, resp)
}

// StartSession handles POST /v1/quizzes/{quiz_id}/sessions. Signed-in callers own the session.
func (h *HTTPHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	view, err := h.svc.Start(r.Context(), r.PathValue("quiz_id"), userID)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusCreated, view)
}

// GetSession handles GET /v1/sessions/{session_id}.
func (h *HTTPHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}
	view, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

type selectRequest struct {
	OptionID string `json:"option_id"`
}

// SelectOption handles POST /v1/sessions/{session_id}/select.
func (h *HTTPHandler) SelectOption(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDFromPath(w, r)
	if !ok {
		return
	}
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid request body")
		return
	}
	if req.OptionID == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "option_id is required", "option_id")
		return
	}
	h.apply(w, r, id, quiz.Event{Type: quiz.EventSelectOption, OptionID: req.OptionID})
}

func (h *HTTPHandler) event(eventType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionIDFromPath(w, r)
		if !ok {
			return
		}
		h.apply(w, r, id, quiz.Event{Type: eventType})
	}
}

func (h *HTTPHandler) apply(w http.ResponseWriter, r *http.Request, id uuid.UUID, evt quiz.Event) {
	view, err := h.svc.Apply(r.Context(), id, evt)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, view)
}

const (
	defaultAttemptLimit = 20
	maxAttemptLimit     = 100
)

// ListAttempts handles GET /v1/users/me/attempts?limit=N.
// The limit defaults to 20 and is capped at 100.
func (h *HTTPHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	limit := defaultAttemptLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "limit must be a positive integer", "limit")
			return
		}
		limit = min(parsed, maxAttemptLimit)
	}
	attempts, err := h.history.ListForUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("list attempts failed")
		httperrors.RespondInternalError(w, "failed to list attempts")
		return
	}
	if attempts == nil {
		attempts = []sqlcgen.QuizAttempt{}
	}
	httperrors.RespondJSON(w, http.StatusOK, map[string]interface{}{"attempts": attempts})
}

func sessionIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("session_id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "session id must be a UUID", "session_id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *HTTPHandler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrQuizNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeQuizNotFound, "Quiz not found")
	case errors.Is(err, ErrSessionNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found or expired")
	case errors.Is(err, ErrSessionBusy):
		httperrors.RespondConflict(w, httperrors.ErrCodeSessionBusy, "Session is being updated, retry")
	case errors.Is(err, quiz.ErrStateOutOfRange):
		httperrors.RespondConflict(w, httperrors.ErrCodeConflict, "Session no longer matches its quiz, start a new one")
	default:
		h.logger.Error().Err(err).Msg("session request failed")
		httperrors.RespondInternalError(w, "Session request failed")
	}
}
