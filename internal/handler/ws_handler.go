/*
This file contains HandleWebSocket, which binds the caller's identity from the session
cookie, upgrades the connection and hands it to the hub for its whole lifetime.
*/
package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"relaychat/internal/app/chat"
	"relaychat/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc serving the relay endpoint.
// A missing or invalid session cookie does not refuse the upgrade; the connection
// simply stays anonymous.
func HandleWebSocket(deps *AppDeps, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := chat.BindIdentity(r.Header.Get("Cookie"), deps.Verifier)
		if err != nil && !errors.Is(err, chat.ErrNoCredential) {
			logx.Info("WebSocket handshake with invalid session, continuing anonymously", "error", err.Error())
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		deps.Hub.Serve(conn, identity)
	}
}
