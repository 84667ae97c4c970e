package leaderboard

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
)

// Sources reported alongside a ranking.
const (
	SourceRedis    = "redis"
	SourcePostgres = "postgres"
)

// Entry represents a leaderboard record sent to clients.
type Entry struct {
	Rank        int       `json:"rank"`
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	BestPercent int       `json:"best_percent"`
	Attempts    int       `json:"attempts"`
}

// RecordRequest captures one completed quiz run.
type RecordRequest struct {
	QuizID      string
	UserID      uuid.UUID
	DisplayName string
	Percent     int
}

type fallbackStore interface {
	TopForQuiz(ctx context.Context, quizID string, limit int) ([]sqlcgen.TopQuizScoresRow, error)
}

// ServiceOptions configures leaderboard service behavior.
type ServiceOptions struct {
	DefaultLimit   int
	MaxLimit       int
	EntryTTL       time.Duration
	RedisKeyPrefix string
}

// Service keeps each user's best percent per quiz in a Redis sorted set.
type Service struct {
	redis        *redis.Client
	fallback     fallbackStore
	logger       zerolog.Logger
	defaultLimit int
	maxLimit     int
	entryTTL     time.Duration
	prefix       string
}

// NewService constructs a leaderboard service instance. fallback may be nil.
func NewService(redis *redis.Client, fallback fallbackStore, logger zerolog.Logger, opts ServiceOptions) *Service {
	maxLimit := opts.MaxLimit
	if maxLimit <= 0 {
		maxLimit = 100
	}
	defLimit := opts.DefaultLimit
	if defLimit <= 0 || defLimit > maxLimit {
		defLimit = min(10, maxLimit)
	}
	prefix := opts.RedisKeyPrefix
	if prefix == "" {
		prefix = "lb"
	}

	return &Service{
		redis:        redis,
		fallback:     fallback,
		logger:       logger.With().Str("component", "leaderboard").Logger(),
		defaultLimit: defLimit,
		maxLimit:     maxLimit,
		entryTTL:     opts.EntryTTL,
		prefix:       prefix,
	}
}

// RecordResult raises the user's best percent if this run beat it. Anonymous runs are not ranked.
func (s *Service) RecordResult(ctx context.Context, req RecordRequest) error {
	if req.UserID == uuid.Nil {
		return nil
	}

	zKey := s.leaderboardKey(req.QuizID)
	metaKey := s.metaKey(req.QuizID, req.UserID)

	pipe := s.redis.TxPipeline()
	pipe.ZAddGT(ctx, zKey, redis.Z{Score: float64(req.Percent), Member: req.UserID.String()})
	pipe.HIncrBy(ctx, metaKey, "attempts", 1)
	if req.DisplayName != "" {
		pipe.HSet(ctx, metaKey, "display_name", req.DisplayName)
	}
	if s.entryTTL > 0 {
		pipe.Expire(ctx, zKey, s.entryTTL)
		pipe.Expire(ctx, metaKey, s.entryTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("update leaderboard %s: %w", req.QuizID, err)
	}
	return nil
}

// Top returns the best runs for a quiz and where they came from.
// When Redis has nothing, the ranking is rebuilt from recorded attempts.
func (s *Service) Top(ctx context.Context, quizID string, limit int) ([]Entry, string, error) {
	limit = s.clampLimit(limit)

	entries, err := s.topFromRedis(ctx, quizID, limit)
	if err != nil {
		s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("redis leaderboard fetch failed")
	}
	if len(entries) > 0 || s.fallback == nil {
		return entries, SourceRedis, err
	}

	rows, ferr := s.fallback.TopForQuiz(ctx, quizID, limit)
	if ferr != nil {
		return nil, SourcePostgres, fmt.Errorf("fetch leaderboard %s: %w", quizID, ferr)
	}
	entries = make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			Rank:        i + 1,
			UserID:      repository.UUIDFrom(row.UserID),
			DisplayName: row.DisplayName,
			BestPercent: int(row.BestPercent),
			Attempts:    int(row.Attempts),
		}
	}
	return entries, SourcePostgres, nil
}

func (s *Service) topFromRedis(ctx context.Context, quizID string, limit int) ([]Entry, error) {
	results, err := s.redis.ZRevRangeWithScores(ctx, s.leaderboardKey(quizID), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch leaderboard: %w", err)
	}

	entries := make([]Entry, 0, len(results))
	for _, z := range results {
		member, _ := z.Member.(string)
		userID, err := uuid.Parse(member)
		if err != nil {
			s.logger.Warn().Str("member", member).Msg("skip malformed leaderboard member")
			continue
		}
		meta, err := s.redis.HGetAll(ctx, s.metaKey(quizID, userID)).Result()
		if err != nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard metadata")
		}
		entries = append(entries, Entry{
			Rank:        len(entries) + 1,
			UserID:      userID,
			DisplayName: meta["display_name"],
			BestPercent: int(z.Score),
			Attempts:    parseInt(meta["attempts"]),
		})
	}
	return entries, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

func (s *Service) leaderboardKey(quizID string) string {
	return fmt.Sprintf("%s:quiz:%s", s.prefix, quizID)
}

func (s *Service) metaKey(quizID string, userID uuid.UUID) string {
	return fmt.Sprintf("%s:quiz:%s:meta:%s", s.prefix, quizID, userID.String())
}

func parseInt(val string) int {
	if val == "" {
		return 0
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return i
}
