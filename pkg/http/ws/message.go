package ws

import "encoding/json"

// MessageType constants for the quiz WebSocket protocol.
const (
	// Client -> Server
	TypeSelectOption = "select_option"
	TypeCheckAnswer  = "check_answer"
	TypeNextQuestion = "next_question"
	TypeRestart      = "restart"
	TypeRequestState = "request_state"

	// Server -> Client
	TypeSessionState = "session_state"
	TypeError        = "error"
	TypePing         = "ping"
	TypePong         = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// SelectOptionPayload carries the option chosen for the current question.
type SelectOptionPayload struct {
	OptionID string `json:"option_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage marshals payload into a typed message.
func NewMessage(msgType string, payload interface{}) (Message, error) {
	if payload == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Payload: raw}, nil
}

// ErrorMessage builds an error frame; marshalling ErrorPayload cannot fail.
func ErrorMessage(code, message string) Message {
	msg, _ := NewMessage(TypeError, ErrorPayload{Code: code, Message: message})
	return msg
}
