package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/skill-horizon/internal/quiz"
	httperrors "github.com/gokatarajesh/skill-horizon/pkg/http/errors"
	ws "github.com/gokatarajesh/skill-horizon/pkg/http/ws"
)

// WSHandler drives a session over a WebSocket: client frames become engine events.
type WSHandler struct {
	svc      *Service
	hub      *ws.Hub
	upgrader *websocket.Upgrader
	logger   zerolog.Logger
}

// NewWSHandler creates the /ws/quiz handler. The hub must be the service's Broadcaster.
func NewWSHandler(svc *Service, hub *ws.Hub, upgrader *websocket.Upgrader, logger zerolog.Logger) *WSHandler {
	return &WSHandler{
		svc:      svc,
		hub:      hub,
		upgrader: upgrader,
		logger:   logger.With().Str("component", "session_ws").Logger(),
	}
}

// HandleWebSocket upgrades GET /ws/quiz?session_id=... after checking the session exists.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID, err := uuid.Parse(r.URL.Query().Get("session_id"))
	if err != nil {
		httperrors.RespondValidationError(w, httperrors.ErrCodeValidationFailed, "session_id must be a UUID", "session_id")
		return
	}
	view, err := h.svc.Get(r.Context(), sessionID)
	if err != nil {
		httperrors.RespondNotFound(w, httperrors.ErrCodeSessionNotFound, "Session not found or expired")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.HandleConnection(conn, sessionID, view)
}

// HandleConnection pumps frames until the client disconnects.
func (h *WSHandler) HandleConnection(conn *websocket.Conn, sessionID uuid.UUID, initial View) {
	log := h.logger.With().Str("session_id", sessionID.String()).Logger()
	wsConn := ws.NewConnection(conn, log)
	h.hub.Register(sessionID.String(), wsConn)

	go wsConn.WritePump()
	h.send(wsConn, initial)

	wsConn.ReadPump(func(msg ws.Message) error {
		return h.handleMessage(context.Background(), wsConn, sessionID, msg)
	})

	h.hub.Unregister(sessionID.String(), wsConn)
}

func (h *WSHandler) handleMessage(ctx context.Context, conn *ws.Connection, sessionID uuid.UUID, msg ws.Message) error {
	var evt quiz.Event
	switch msg.Type {
	case ws.TypeSelectOption:
		var p ws.SelectOptionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.OptionID == "" {
			return conn.Send(ws.ErrorMessage(httperrors.ErrCodeInvalidPayload, "Invalid select_option payload"))
		}
		evt = quiz.Event{Type: quiz.EventSelectOption, OptionID: p.OptionID}
	case ws.TypeCheckAnswer:
		evt = quiz.Event{Type: quiz.EventCheckAnswer}
	case ws.TypeNextQuestion:
		evt = quiz.Event{Type: quiz.EventNextQuestion}
	case ws.TypeRestart:
		evt = quiz.Event{Type: quiz.EventRestart}
	case ws.TypeRequestState:
		view, err := h.svc.Get(ctx, sessionID)
		if err != nil {
			return h.sendErr(conn, err)
		}
		return h.send(conn, view)
	case ws.TypePing:
		pong, _ := ws.NewMessage(ws.TypePong, nil)
		return conn.Send(pong)
	default:
		return conn.Send(ws.ErrorMessage(httperrors.ErrCodeUnknownMessageType, fmt.Sprintf("Unknown message type: %s", msg.Type)))
	}

	view, err := h.svc.Apply(ctx, sessionID, evt)
	if err != nil {
		return h.sendErr(conn, err)
	}
	// Changed views reach this connection through the hub broadcast.
	if view.Changed {
		return nil
	}
	return h.send(conn, view)
}

func (h *WSHandler) send(conn *ws.Connection, view View) error {
	msg, err := ws.NewMessage(ws.TypeSessionState, view)
	if err != nil {
		return err
	}
	return conn.Send(msg)
}

func (h *WSHandler) sendErr(conn *ws.Connection, err error) error {
	code := httperrors.ErrCodeSessionFailed
	switch {
	case errors.Is(err, ErrSessionNotFound):
		code = httperrors.ErrCodeSessionNotFound
	case errors.Is(err, ErrSessionBusy):
		code = httperrors.ErrCodeSessionBusy
	}
	if sendErr := conn.Send(ws.ErrorMessage(code, err.Error())); sendErr != nil {
		return sendErr
	}
	return err
}
