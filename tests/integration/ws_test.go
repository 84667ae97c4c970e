//go:build integration
// +build integration

package integration

import (
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	wsmsg "github.com/gokatarajesh/skill-horizon/pkg/http/ws"
)

func TestWebSocketSessionFlow(t *testing.T) {
	view := startSession(t, "")

	conn := dialSessionWS(t, view.SessionID)
	defer conn.Close()

	initial := readState(t, conn)
	if initial.SessionID != view.SessionID || initial.QuestionNumber != 1 {
		t.Fatalf("unexpected initial state %+v", initial)
	}

	send(t, conn, wsmsg.TypeSelectOption, wsmsg.SelectOptionPayload{OptionID: correctAnswers["q1"]})
	if st := readState(t, conn); st.SelectedOptionID != correctAnswers["q1"] || !st.Changed {
		t.Fatalf("select not applied: %+v", st)
	}

	send(t, conn, wsmsg.TypeCheckAnswer, nil)
	if st := readState(t, conn); !st.Answered || st.Score != 1 {
		t.Fatalf("check not applied: %+v", st)
	}

	// A second check is a no-op and is answered to the sender only.
	send(t, conn, wsmsg.TypeCheckAnswer, nil)
	if st := readState(t, conn); st.Changed || st.Score != 1 {
		t.Fatalf("repeated check changed state: %+v", st)
	}

	send(t, conn, wsmsg.TypeNextQuestion, nil)
	if st := readState(t, conn); st.QuestionNumber != 2 || st.Answered {
		t.Fatalf("next not applied: %+v", st)
	}
}

func TestWebSocketBroadcastsToWatchers(t *testing.T) {
	view := startSession(t, "")

	player := dialSessionWS(t, view.SessionID)
	defer player.Close()
	watcher := dialSessionWS(t, view.SessionID)
	defer watcher.Close()

	readState(t, player)
	readState(t, watcher)

	send(t, player, wsmsg.TypeSelectOption, wsmsg.SelectOptionPayload{OptionID: "q1a"})
	if st := readState(t, watcher); st.SelectedOptionID != "q1a" {
		t.Fatalf("watcher did not see selection: %+v", st)
	}
}

func TestWebSocketUnknownMessage(t *testing.T) {
	view := startSession(t, "")
	conn := dialSessionWS(t, view.SessionID)
	defer conn.Close()
	readState(t, conn)

	send(t, conn, "dance", nil)
	msg := readMessage(t, conn)
	if msg.Type != wsmsg.TypeError {
		t.Fatalf("expected error frame, got %s", msg.Type)
	}
	var payload wsmsg.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	if payload.Code != "unknown_message_type" {
		t.Fatalf("error code %q", payload.Code)
	}
}

func dialSessionWS(t *testing.T, sessionID string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(envOrDefault("INTEGRATION_WS_URL", "ws://localhost:8080/ws/quiz"))
	if err != nil {
		t.Fatalf("invalid WS url: %v", err)
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	msg, err := wsmsg.NewMessage(msgType, payload)
	if err != nil {
		t.Fatalf("build message: %v", err)
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write message: %v", err)
	}
}

func readMessage(t *testing.T, conn *websocket.Conn) wsmsg.Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg wsmsg.Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read message: %v", err)
	}
	return msg
}

func readState(t *testing.T, conn *websocket.Conn) sessionView {
	t.Helper()
	msg := readMessage(t, conn)
	if msg.Type != wsmsg.TypeSessionState {
		t.Fatalf("expected %s, got %s", wsmsg.TypeSessionState, msg.Type)
	}
	var view sessionView
	if err := json.Unmarshal(msg.Payload, &view); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return view
}
