package resume

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/resume/gemini"
)

const (
	defaultCacheTTL = 24 * time.Hour
	maxResumeBytes  = 64 << 10
)

// ErrResumeTooLarge is returned for resume text beyond what one prompt should carry.
var ErrResumeTooLarge = errors.New("resume text too large")

type textGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Analyzer asks the model for a structured analysis, caching results by text digest.
type Analyzer struct {
	gen    textGenerator
	redis  *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewAnalyzer builds an Analyzer. redis may be nil to disable caching.
func NewAnalyzer(gen textGenerator, client *redis.Client, ttl time.Duration, logger zerolog.Logger) *Analyzer {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Analyzer{
		gen:    gen,
		redis:  client,
		ttl:    ttl,
		logger: logger.With().Str("component", "resume_analyzer").Logger(),
	}
}

// Analyze returns the structured analysis of text.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Analysis, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Analysis{}, ErrEmptyResume
	}
	if len(text) > maxResumeBytes {
		return Analysis{}, ErrResumeTooLarge
	}

	key := cacheKey(text)
	if cached, ok := a.cached(ctx, key); ok {
		return cached, nil
	}

	out, err := a.gen.GenerateText(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		return Analysis{}, fmt.Errorf("generate analysis: %w", err)
	}

	var analysis Analysis
	if err := gemini.ExtractJSON(out, &analysis); err != nil {
		a.logger.Warn().Err(err).Int("response_len", len(out)).Msg("unparseable analysis")
		return Analysis{}, fmt.Errorf("parse analysis: %w", err)
	}
	analysis.normalize()

	a.store(ctx, key, analysis)
	return analysis, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "resume:analysis:" + hex.EncodeToString(sum[:])
}

func (a *Analyzer) cached(ctx context.Context, key string) (Analysis, bool) {
	if a.redis == nil {
		return Analysis{}, false
	}
	data, err := a.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			a.logger.Warn().Err(err).Msg("analysis cache read failed")
		}
		return Analysis{}, false
	}
	var analysis Analysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		a.logger.Warn().Err(err).Msg("analysis cache entry corrupt")
		return Analysis{}, false
	}
	analysis.normalize()
	return analysis, true
}

func (a *Analyzer) store(ctx context.Context, key string, analysis Analysis) {
	if a.redis == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := a.redis.Set(ctx, key, data, a.ttl).Err(); err != nil {
		a.logger.Warn().Err(err).Msg("analysis cache write failed")
	}
}
