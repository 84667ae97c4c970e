package ws

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesSessionConnections(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	registered := make(chan *Connection, 1)

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn := NewConnection(raw, zerolog.Nop())
		hub.Register("s1", conn)
		go conn.WritePump()
		registered <- conn
	}))
	defer srv.Close()

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer client.Close()

	var conn *Connection
	select {
	case conn = <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("connection was not registered")
	}
	assert.Equal(t, 1, hub.Connections("s1"))

	msg, err := NewMessage(TypeSessionState, map[string]int{"score": 2})
	require.NoError(t, err)
	require.NoError(t, hub.Broadcast("s1", msg))
	require.NoError(t, hub.Broadcast("other", msg))

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	require.NoError(t, client.ReadJSON(&got))
	assert.Equal(t, TypeSessionState, got.Type)
	assert.JSONEq(t, `{"score":2}`, string(got.Payload))

	hub.Unregister("s1", conn)
	assert.Equal(t, 0, hub.Connections("s1"))
	assert.ErrorIs(t, conn.Send(msg), ErrConnectionClosed)
}

func TestErrorMessage(t *testing.T) {
	msg := ErrorMessage("invalid_payload", "bad frame")
	assert.Equal(t, TypeError, msg.Type)
	assert.JSONEq(t, `{"code":"invalid_payload","message":"bad frame"}`, string(msg.Payload))
}
