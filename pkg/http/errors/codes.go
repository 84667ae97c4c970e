package errors

// Error codes for standardized error responses
const (
	// Authentication & Authorization
	ErrCodeUnauthorized           = "unauthorized"
	ErrCodeInvalidToken           = "invalid_token"
	ErrCodeTokenExpired           = "token_expired"
	ErrCodeTokenRevoked           = "token_revoked"
	ErrCodeAuthenticationRequired = "authentication_required"
	ErrCodeInvalidCredentials     = "invalid_credentials"

	// Validation
	ErrCodeInvalidRequest   = "invalid_request"
	ErrCodeValidationFailed = "validation_failed"
	ErrCodeMissingField     = "missing_field"
	ErrCodePayloadTooLarge  = "payload_too_large"

	// Resources
	ErrCodeNotFound      = "not_found"
	ErrCodeAlreadyExists = "already_exists"
	ErrCodeConflict      = "conflict"

	// Accounts
	ErrCodeSignupFailed        = "signup_failed"
	ErrCodeLoginFailed         = "login_failed"
	ErrCodeRefreshFailed       = "refresh_failed"
	ErrCodeProfileUpdateFailed = "profile_update_failed"

	// Quiz sessions
	ErrCodeQuizNotFound       = "quiz_not_found"
	ErrCodeSessionNotFound    = "session_not_found"
	ErrCodeSessionBusy        = "session_busy"
	ErrCodeSessionStartFailed = "session_start_failed"
	ErrCodeSessionFailed      = "session_update_failed"

	// Resume analysis
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeEmptyResume       = "empty_resume"
	ErrCodeAnalysisFailed    = "analysis_failed"
	ErrCodeJobNotFound       = "job_not_found"
	ErrCodeEnqueueFailed     = "enqueue_failed"

	// WebSocket
	ErrCodeInvalidPayload     = "invalid_payload"
	ErrCodeUnknownMessageType = "unknown_message_type"

	// Server
	ErrCodeInternalError      = "internal_error"
	ErrCodeServiceUnavailable = "service_unavailable"
	ErrCodeUpstreamError      = "upstream_error"

	// Feature availability
	ErrCodeFeatureNotAvailable = "feature_not_available"

	// OAuth
	ErrCodeOAuthNotConfigured  = "oauth_not_configured"
	ErrCodeOAuthCallbackFailed = "oauth_callback_failed"
	ErrCodeOAuthMissingCode    = "missing_code"
	ErrCodeOAuthInvalidState   = "invalid_state"

	// Leaderboard
	ErrCodeLeaderboardFetchFailed = "leaderboard_fetch_failed"
)
