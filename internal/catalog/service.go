package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	sqlcgen "github.com/gokatarajesh/skill-horizon/internal/db/sqlc"
	"github.com/gokatarajesh/skill-horizon/internal/db/repository"
	"github.com/gokatarajesh/skill-horizon/internal/quiz"
)

// ErrQuizNotFound is returned when no source knows the requested quiz.
var ErrQuizNotFound = errors.New("quiz not found")

// Summary is the list view of a quiz.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	QuestionCount int    `json:"question_count"`
}

// DefinitionCache defines cache behavior (implemented by the Redis-backed Cache).
type DefinitionCache interface {
	Get(ctx context.Context, quizID string) (*quiz.Definition, error)
	Set(ctx context.Context, def quiz.Definition) error
	Delete(ctx context.Context, quizID string) error
}

type definitionStore interface {
	List(ctx context.Context) ([]sqlcgen.ListQuizzesRow, error)
	Load(ctx context.Context, quizID string) (quiz.Definition, error)
	Save(ctx context.Context, def quiz.Definition) error
}

// Service resolves quiz definitions: cache, then Postgres, then the definitions built into the binary.
type Service struct {
	store   definitionStore
	cache   DefinitionCache
	builtin map[string]quiz.Definition
	logger  zerolog.Logger
}

type ServiceOptions struct {
	// Builtin overrides quiz.Builtin(); mostly useful in tests.
	Builtin map[string]quiz.Definition
}

// NewService wires the catalog. store and cache may be nil.
func NewService(store definitionStore, cache DefinitionCache, opts ServiceOptions, logger zerolog.Logger) *Service {
	builtin := opts.Builtin
	if builtin == nil {
		builtin = quiz.Builtin()
	}
	return &Service{
		store:   store,
		cache:   cache,
		builtin: builtin,
		logger:  logger.With().Str("component", "catalog").Logger(),
	}
}

// Get returns a validated definition.
func (s *Service) Get(ctx context.Context, quizID string) (quiz.Definition, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, quizID); err == nil && cached != nil {
			return *cached, nil
		} else if err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("catalog cache read failed")
		}
	}

	def, err := s.load(ctx, quizID)
	if err != nil {
		return quiz.Definition{}, err
	}
	if err := def.Validate(); err != nil {
		return quiz.Definition{}, fmt.Errorf("quiz %s: %w", quizID, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, def); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("catalog cache write failed")
		}
	}
	return def, nil
}

func (s *Service) load(ctx context.Context, quizID string) (quiz.Definition, error) {
	builtin, hasBuiltin := s.builtin[quizID]
	if s.store == nil {
		if hasBuiltin {
			return builtin, nil
		}
		return quiz.Definition{}, ErrQuizNotFound
	}

	def, err := s.store.Load(ctx, quizID)
	switch {
	case err == nil:
		return def, nil
	case errors.Is(err, repository.ErrNotFound):
		if hasBuiltin {
			return builtin, nil
		}
		return quiz.Definition{}, ErrQuizNotFound
	case hasBuiltin:
		s.logger.Warn().Err(err).Str("quiz_id", quizID).Msg("quiz store unavailable, serving built-in definition")
		return builtin, nil
	default:
		return quiz.Definition{}, fmt.Errorf("load quiz %s: %w", quizID, err)
	}
}

// List returns stored quizzes plus built-ins not shadowed by a stored quiz, ordered by title.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	seen := make(map[string]struct{})
	var out []Summary
	if s.store != nil {
		rows, err := s.store.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list quizzes: %w", err)
		}
		for _, row := range rows {
			seen[row.QuizID] = struct{}{}
			out = append(out, Summary{ID: row.QuizID, Title: row.Title, QuestionCount: int(row.QuestionCount)})
		}
	}
	for id, def := range s.builtin {
		if _, ok := seen[id]; ok {
			continue
		}
		out = append(out, Summary{ID: id, Title: def.Title, QuestionCount: len(def.Questions)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Title == out[j].Title {
			return out[i].ID < out[j].ID
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// Save validates and persists a definition, then drops any cached copy.
func (s *Service) Save(ctx context.Context, def quiz.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("quiz id required")
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if s.store == nil {
		return fmt.Errorf("quiz store not configured")
	}
	if err := s.store.Save(ctx, def); err != nil {
		return fmt.Errorf("save quiz %s: %w", def.ID, err)
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, def.ID); err != nil {
			s.logger.Warn().Err(err).Str("quiz_id", def.ID).Msg("catalog cache invalidation failed")
		}
	}
	s.logger.Info().Str("quiz_id", def.ID).Int("questions", len(def.Questions)).Msg("quiz saved")
	return nil
}
