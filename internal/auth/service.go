package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/auth/jwt"
	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrNameRequired       = errors.New("name is required")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrInvalidProfile     = errors.New("resume score must be between 0 and 100")
	ErrUserNotFound       = errors.New("user not found")
)

type userStore interface {
	Create(ctx context.Context, params sqlcgen.CreateUserParams) (sqlcgen.User, error)
	GetByEmail(ctx context.Context, email string) (sqlcgen.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (sqlcgen.User, error)
	UpdateLogin(ctx context.Context, userID uuid.UUID) error
	UpdateProfile(ctx context.Context, userID uuid.UUID, resumeScore int, jobs []string) (sqlcgen.User, error)
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
	Redis       *redis.Client
	BcryptCost  int

	// Profile defaults for fresh accounts.
	SignupResumeScore int
	SignupJobs        []string
}

// Service handles authentication and user management.
type Service struct {
	users    userStore
	tokenMgr *jwt.Manager
	redis    *redis.Client
	opts     ServiceOptions
	logger   zerolog.Logger
}

// NewService creates an authentication service.
func NewService(users userStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		redis:    opts.Redis,
		opts:     opts,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// Signup creates an account with the default profile and signs it in.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, *TokenPair, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, ErrNameRequired
	}

	passwordHash, err := HashPassword(req.Password, s.opts.BcryptCost)
	if err != nil {
		return nil, nil, err
	}

	jobs := append([]string{}, s.opts.SignupJobs...)
	dbUser, err := s.users.Create(ctx, sqlcgen.CreateUserParams{
		Email:        email,
		PasswordHash: pgtype.Text{String: passwordHash, Valid: true},
		DisplayName:  name,
		ResumeScore:  int32(s.opts.SignupResumeScore),
		Jobs:         jobs,
		AuthProvider: ProviderPassword,
	})
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, nil, ErrEmailTaken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return &user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	dbUser, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	// OAuth-only accounts have no password.
	if !dbUser.PasswordHash.Valid {
		return nil, nil, ErrInvalidCredentials
	}
	if err := VerifyPassword(dbUser.PasswordHash.String, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	user := toUser(dbUser)
	if err := s.users.UpdateLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("user_id", user.ID.String()).Msg("update last login failed")
	}

	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return &user, tokens, nil
}

// Logout revokes the refresh token until it would have expired anyway.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if errors.Is(err, jwt.ErrExpiredToken) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := s.revoke(ctx, claims); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", claims.UserID.String()).Msg("user logged out")
	return nil
}

// Refresh rotates a refresh token into a new pair. The old refresh token is
// claimed before anything else runs, so only one caller can ever rotate it.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if err := s.claim(ctx, claims); err != nil {
		return nil, err
	}

	dbUser, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return s.generateTokenPair(toUser(dbUser))
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

// Profile returns the dashboard data of a user.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	dbUser, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return toProfile(dbUser), nil
}

// UpdateProfile sets resume score and/or jobs.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*Profile, error) {
	current, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	score, jobs := current.ResumeScore, current.Jobs
	if req.ResumeScore != nil {
		if *req.ResumeScore < 0 || *req.ResumeScore > 100 {
			return nil, ErrInvalidProfile
		}
		score = *req.ResumeScore
	}
	if req.Jobs != nil {
		jobs = make([]string, 0, len(req.Jobs))
		for _, j := range req.Jobs {
			if j = strings.TrimSpace(j); j != "" {
				jobs = append(jobs, j)
			}
		}
	}

	dbUser, err := s.users.UpdateProfile(ctx, userID, score, jobs)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return toProfile(dbUser), nil
}

// LoginOAuth signs in the account matching the provider's email, creating it on first use.
func (s *Service) LoginOAuth(ctx context.Context, provider string, info *OAuthUserInfo) (*User, *TokenPair, error) {
	email, err := normalizeEmail(info.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("OAuth provider did not return a usable email: %w", err)
	}

	dbUser, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.users.UpdateLogin(ctx, toUser(dbUser).ID); err != nil {
			s.logger.Warn().Err(err).Msg("update last login failed")
		}
	case errors.Is(err, repository.ErrNotFound):
		name := strings.TrimSpace(info.Name)
		if name == "" {
			name = email
		}
		dbUser, err = s.users.Create(ctx, sqlcgen.CreateUserParams{
			Email:        email,
			DisplayName:  name,
			ResumeScore:  int32(s.opts.SignupResumeScore),
			Jobs:         append([]string{}, s.opts.SignupJobs...),
			AuthProvider: provider,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create OAuth user: %w", err)
		}
		s.logger.Info().Str("user_id", toUser(dbUser).ID.String()).Str("provider", provider).Msg("OAuth user created")
	default:
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	user := toUser(dbUser)
	tokens, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}
	return &user, tokens, nil
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	jwtUser := jwt.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}

	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func revokedKey(tokenID string) string {
	return "auth:revoked:" + tokenID
}

func (s *Service) revoke(ctx context.Context, claims *jwt.Claims) error {
	if s.redis == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Set(ctx, revokedKey(claims.ID), claims.UserID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// claim revokes the token with SET NX; losing the race means another caller
// already used or revoked it.
func (s *Service) claim(ctx context.Context, claims *jwt.Claims) error {
	if s.redis == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return jwt.ErrExpiredToken
	}
	ok, err := s.redis.SetNX(ctx, revokedKey(claims.ID), claims.UserID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("claim token: %w", err)
	}
	if !ok {
		return ErrTokenRevoked
	}
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

func toUser(u sqlcgen.User) User {
	return User{
		ID:          repository.UUIDFrom(u.UserID),
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

func toProfile(u sqlcgen.User) *Profile {
	jobs := u.Jobs
	if jobs == nil {
		jobs = []string{}
	}
	return &Profile{
		UserID:      repository.UUIDFrom(u.UserID),
		Email:       u.Email,
		Name:        u.DisplayName,
		ResumeScore: int(u.ResumeScore),
		Jobs:        jobs,
	}
}
