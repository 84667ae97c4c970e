package quiz

import (
	"errors"
	"fmt"
)

// Feedback tiers derived from the final percentage.
const (
	TierExcellent        = "excellent"
	TierGood             = "good"
	TierNeedsImprovement = "needs_improvement"
)

var (
	ErrNoQuestions        = errors.New("quiz has no questions")
	ErrTooFewOptions      = errors.New("question needs at least two options")
	ErrCorrectOptionCount = errors.New("question needs exactly one correct option")
	ErrDuplicateID        = errors.New("duplicate id")
)

// Option is a single answer choice.
type Option struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// Question is one prompt with its ordered options.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Options     []Option `json:"options"`
	Explanation string   `json:"explanation"`
}

// Definition is an ordered, immutable question set.
type Definition struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// State is the mutable part of a session. SelectedOptionID is empty when nothing is selected.
type State struct {
	CurrentIndex     int    `json:"current_index"`
	SelectedOptionID string `json:"selected_option_id,omitempty"`
	Answered         bool   `json:"answered"`
	Score            int    `json:"score"`
	Completed        bool   `json:"completed"`
}

// InitialState is the state every session starts from and returns to on restart.
func InitialState() State {
	return State{}
}

// Validate checks the structural rules a definition must satisfy before a session can use it.
func (d Definition) Validate() error {
	if len(d.Questions) == 0 {
		return ErrNoQuestions
	}
	questionIDs := make(map[string]struct{}, len(d.Questions))
	for i, q := range d.Questions {
		if _, dup := questionIDs[q.ID]; dup {
			return fmt.Errorf("question %q: %w", q.ID, ErrDuplicateID)
		}
		questionIDs[q.ID] = struct{}{}

		if len(q.Options) < 2 {
			return fmt.Errorf("question %d (%s): %w", i+1, q.ID, ErrTooFewOptions)
		}
		correct := 0
		optionIDs := make(map[string]struct{}, len(q.Options))
		for _, opt := range q.Options {
			if _, dup := optionIDs[opt.ID]; dup {
				return fmt.Errorf("question %s option %q: %w", q.ID, opt.ID, ErrDuplicateID)
			}
			optionIDs[opt.ID] = struct{}{}
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("question %d (%s): %w", i+1, q.ID, ErrCorrectOptionCount)
		}
	}
	return nil
}

// Option looks up an option of the question by id.
func (q Question) Option(id string) (Option, bool) {
	for _, opt := range q.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// CorrectOption returns the option flagged as correct.
func (q Question) CorrectOption() Option {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt
		}
	}
	return Option{}
}
