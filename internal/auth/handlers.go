package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/auth/jwt"
	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
)

const (
	oauthStateCookie = "oauth_state"
	maxAuthBody      = 1 << 16
)

// HTTPHandlers provides REST endpoints for authentication and the profile.
type HTTPHandlers struct {
	authSvc  *Service
	oauthSvc *OAuthService
	logger   zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for auth endpoints. oauthSvc may be nil.
func NewHTTPHandlers(authSvc *Service, oauthSvc *OAuthService, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		authSvc:  authSvc,
		oauthSvc: oauthSvc,
		logger:   logger.With().Str("component", "auth_http").Logger(),
	}
}

// Register mounts the auth routes on mux.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/auth/signup", h.Signup)
	mux.HandleFunc("POST /v1/auth/login", h.Login)
	mux.HandleFunc("POST /v1/auth/logout", h.Logout)
	mux.HandleFunc("POST /v1/auth/refresh", h.Refresh)
	mux.HandleFunc("GET /v1/oauth/google/start", h.OAuthStart)
	mux.HandleFunc("GET /v1/oauth/google/callback", h.OAuthCallback)
	mux.Handle("GET /v1/users/me", RequireAuth(http.HandlerFunc(h.GetMe)))
	mux.Handle("PATCH /v1/users/me", RequireAuth(http.HandlerFunc(h.UpdateMe)))
}

type authResponse struct {
	User *User `json:"user"`
	*TokenPair
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup handles POST /v1/auth/signup
func (h *HTTPHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authSvc.Signup(r.Context(), req)
	switch {
	case errors.Is(err, ErrEmailTaken):
		httperrors.RespondConflict(w, httperrors.ErrCodeAlreadyExists, "An account with this email already exists")
		return
	case errors.Is(err, ErrInvalidEmail):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "email")
		return
	case errors.Is(err, ErrPasswordTooShort):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "password")
		return
	case errors.Is(err, ErrNameRequired):
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, err.Error(), "name")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("signup failed")
		httperrors.RespondInternalError(w, "Signup failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusCreated, authResponse{User: user, TokenPair: tokens})
}

// Login handles POST /v1/auth/login
func (h *HTTPHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, tokens, err := h.authSvc.Login(r.Context(), req)
	if errors.Is(err, ErrInvalidCredentials) {
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidCredentials, "Invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("login failed")
		httperrors.RespondInternalError(w, "Login failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, authResponse{User: user, TokenPair: tokens})
}

// Logout handles POST /v1/auth/logout
func (h *HTTPHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Refresh token required", "refresh_token")
		return
	}

	if err := h.authSvc.Logout(r.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid refresh token")
			return
		}
		h.logger.Error().Err(err).Msg("logout failed")
		httperrors.RespondInternalError(w, "Logout failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Refresh handles POST /v1/auth/refresh
func (h *HTTPHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httperrors.RespondValidationError(w, httperrors.ErrCodeMissingField, "Refresh token required", "refresh_token")
		return
	}

	tokens, err := h.authSvc.Refresh(r.Context(), req.RefreshToken)
	switch {
	case errors.Is(err, ErrTokenRevoked):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenRevoked, "Refresh token has been revoked")
		return
	case errors.Is(err, jwt.ErrExpiredToken):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeTokenExpired, "Refresh token expired")
		return
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, ErrUserNotFound):
		httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid refresh token")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("refresh failed")
		httperrors.RespondInternalError(w, "Token refresh failed")
		return
	}

	httperrors.RespondJSON(w, http.StatusOK, tokens)
}

// OAuthStart handles GET /v1/oauth/google/start
func (h *HTTPHandlers) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	state := uuid.NewString()
	authURL, err := h.oauthSvc.AuthURL(state)
	if err != nil {
		httperrors.RespondInternalError(w, "Could not start OAuth flow")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/v1/oauth",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600,
	})

	httperrors.RespondJSON(w, http.StatusOK, map[string]string{
		"auth_url": authURL,
		"state":    state,
	})
}

// OAuthCallback handles GET /v1/oauth/google/callback
func (h *HTTPHandlers) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if !h.oauthSvc.Enabled() {
		httperrors.RespondServiceUnavailable(w, httperrors.ErrCodeOAuthNotConfigured, "OAuth is not configured")
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthMissingCode, "Authorization code required")
		return
	}

	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeOAuthInvalidState, "Invalid or missing state parameter")
		return
	}

	info, err := h.oauthSvc.HandleOAuthCallback(r.Context(), code)
	if err != nil {
		httperrors.RespondError(w, http.StatusBadGateway, httperrors.ErrCodeOAuthCallbackFailed, "OAuth exchange failed")
		return
	}

	user, tokens, err := h.authSvc.LoginOAuth(r.Context(), OAuthProviderGoogle, info)
	if err != nil {
		h.logger.Error().Err(err).Msg("OAuth login failed")
		httperrors.RespondInternalError(w, "OAuth login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/v1/oauth",
		MaxAge:   -1,
		HttpOnly: true,
	})

	httperrors.RespondJSON(w, http.StatusOK, authResponse{User: user, TokenPair: tokens})
}

// GetMe handles GET /v1/users/me
func (h *HTTPHandlers) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	profile, err := h.authSvc.Profile(r.Context(), userID)
	if errors.Is(err, ErrUserNotFound) {
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("load profile failed")
		httperrors.RespondInternalError(w, "Could not load profile")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, profile)
}

// UpdateMe handles PATCH /v1/users/me
func (h *HTTPHandlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID, _ := UserIDFromContext(r.Context())
	profile, err := h.authSvc.UpdateProfile(r.Context(), userID, req)
	switch {
	case errors.Is(err, ErrInvalidProfile):
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, err.Error(), "resume_score")
		return
	case errors.Is(err, ErrUserNotFound):
		httperrors.RespondNotFound(w, httperrors.ErrCodeNotFound, "User not found")
		return
	case err != nil:
		h.logger.Error().Err(err).Msg("update profile failed")
		httperrors.RespondError(w, http.StatusInternalServerError, httperrors.ErrCodeProfileUpdateFailed, "Could not update profile")
		return
	}
	httperrors.RespondJSON(w, http.StatusOK, profile)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAuthBody)).Decode(dst); err != nil {
		httperrors.RespondBadRequest(w, httperrors.ErrCodeInvalidRequest, "Invalid JSON payload")
		return false
	}
	return true
}
