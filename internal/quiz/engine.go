package quiz

import (
	"errors"
	"fmt"
)

// ErrStateOutOfRange is returned by Restore when a persisted state cannot belong to the definition.
var ErrStateOutOfRange = errors.New("session state out of range")

// Snapshot is the read model: the raw state plus the values derived from it.
type Snapshot struct {
	State
	TotalQuestions  int    `json:"total_questions"`
	ProgressPercent int    `json:"progress_percent"`
	FinalPercent    int    `json:"final_percent"`
	Tier            string `json:"tier,omitempty"`
}

// Engine owns one session's state and exposes the only legal transitions.
// Calls whose precondition does not hold leave the state untouched.
// An Engine is not safe for concurrent use.
type Engine struct {
	def   Definition
	state State
}

// NewEngine validates the definition and starts a session at the initial state.
func NewEngine(def Definition) (*Engine, error) {
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid quiz %q: %w", def.ID, err)
	}
	return &Engine{def: def, state: InitialState()}, nil
}

// Restore rebuilds an engine from a previously saved state.
func Restore(def Definition, st State) (*Engine, error) {
	e, err := NewEngine(def)
	if err != nil {
		return nil, err
	}
	n := len(def.Questions)
	switch {
	case st.CurrentIndex < 0 || st.CurrentIndex >= n:
		return nil, fmt.Errorf("index %d of %d: %w", st.CurrentIndex, n, ErrStateOutOfRange)
	case st.Score < 0 || st.Score > n:
		return nil, fmt.Errorf("score %d of %d: %w", st.Score, n, ErrStateOutOfRange)
	case st.Completed && (!st.Answered || st.CurrentIndex != n-1):
		return nil, fmt.Errorf("completed before last answer: %w", ErrStateOutOfRange)
	case st.Answered && st.SelectedOptionID == "":
		return nil, fmt.Errorf("answered without selection: %w", ErrStateOutOfRange)
	}
	e.state = st
	return e, nil
}

// Definition returns the quiz the engine was built with.
func (e *Engine) Definition() Definition {
	return e.def
}

// State returns a copy of the current session state.
func (e *Engine) State() State {
	return e.state
}

// CurrentQuestion returns the question at the current index.
func (e *Engine) CurrentQuestion() Question {
	return e.def.Questions[e.state.CurrentIndex]
}

// SelectOption records the user's choice for the current question.
// Once the answer is locked in the selection can no longer change.
// An empty id is ignored; it cannot clear a selection.
func (e *Engine) SelectOption(optionID string) {
	if e.state.Answered || optionID == "" {
		return
	}
	e.state.SelectedOptionID = optionID
}

// CheckAnswer locks in the selection and scores it. It needs a selection and
// scores a question at most once.
func (e *Engine) CheckAnswer() {
	if e.state.Answered || e.state.SelectedOptionID == "" {
		return
	}
	e.state.Answered = true
	if e.selectionCorrect() {
		e.state.Score++
	}
}

// NextQuestion advances past an answered question, or completes the quiz on the last one.
func (e *Engine) NextQuestion() {
	if !e.state.Answered || e.state.Completed {
		return
	}
	if e.state.CurrentIndex < len(e.def.Questions)-1 {
		e.state.CurrentIndex++
		e.state.SelectedOptionID = ""
		e.state.Answered = false
		return
	}
	e.state.Completed = true
}

// Restart replaces the session state with the initial state.
func (e *Engine) Restart() {
	e.state = InitialState()
}

// LastAnswerCorrect reports whether the locked-in answer for the current question is correct.
// It is false while the question is unanswered.
func (e *Engine) LastAnswerCorrect() bool {
	return e.state.Answered && e.selectionCorrect()
}

func (e *Engine) selectionCorrect() bool {
	opt, ok := e.CurrentQuestion().Option(e.state.SelectedOptionID)
	return ok && opt.IsCorrect
}

// ProgressPercent is the display progress of the current question.
func (e *Engine) ProgressPercent() int {
	return Percent(e.state.CurrentIndex+1, len(e.def.Questions))
}

// FinalPercent is the share of correctly answered questions. Only meaningful once completed.
func (e *Engine) FinalPercent() int {
	return Percent(e.state.Score, len(e.def.Questions))
}

// Snapshot returns the state with derived values. Tier is set only for completed sessions.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:           e.state,
		TotalQuestions:  len(e.def.Questions),
		ProgressPercent: e.ProgressPercent(),
		FinalPercent:    e.FinalPercent(),
	}
	if e.state.Completed {
		snap.Tier = TierFor(snap.FinalPercent)
	}
	return snap
}

// Percent computes round(100*part/total) rounding halves up, using integer math only.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}

// TierFor buckets a final percentage; 80 is checked before 60.
func TierFor(percent int) string {
	switch {
	case percent >= 80:
		return TierExcellent
	case percent >= 60:
		return TierGood
	default:
		return TierNeedsImprovement
	}
}
