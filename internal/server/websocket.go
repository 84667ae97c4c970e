package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/gokatarajesh/skill-horizon/internal/config"
)

// NewWSUpgrader builds the upgrader for /ws/quiz, accepting the same origins as CORS.
// Clients that send no Origin header (CLIs, native apps) are allowed.
func NewWSUpgrader(cfg config.CORS) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || OriginAllowed(cfg.AllowedOrigins, origin)
		},
	}
}
