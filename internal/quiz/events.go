package quiz

// Event types accepted by Dispatch.
const (
	EventSelectOption = "select_option"
	EventCheckAnswer  = "check_answer"
	EventNextQuestion = "next_question"
	EventRestart      = "restart"
)

// Event is a single user action addressed to an engine.
type Event struct {
	Type     string `json:"type"`
	OptionID string `json:"option_id,omitempty"`
}

// Dispatch applies an event and reports whether the state changed.
// Unknown event types are ignored like any other out-of-order call.
func (e *Engine) Dispatch(evt Event) bool {
	before := e.state
	switch evt.Type {
	case EventSelectOption:
		e.SelectOption(evt.OptionID)
	case EventCheckAnswer:
		e.CheckAnswer()
	case EventNextQuestion:
		e.NextQuestion()
	case EventRestart:
		e.Restart()
	}
	return e.state != before
}

// KnownEvent reports whether t is one of the event types above.
func KnownEvent(t string) bool {
	switch t {
	case EventSelectOption, EventCheckAnswer, EventNextQuestion, EventRestart:
		return true
	}
	return false
}
