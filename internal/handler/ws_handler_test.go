package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocket_SessionCookieBindsIdentity(t *testing.T) {
	deps := newTestDeps(t)
	srv := httptest.NewServer(Router(deps))
	defer srv.Close()

	alice, aliceCookie := register(t, srv.Config.Handler, "alice")
	bob, bobCookie := register(t, srv.Config.Handler, "bob")

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	dial := func(cookie *http.Cookie) *websocket.Conn {
		header := http.Header{}
		if cookie != nil {
			header.Set("Cookie", cookie.Name+"="+cookie.Value)
		}
		conn, _, err := websocket.DefaultDialer.Dial(url, header)
		require.NoError(t, err)
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}

	a := dial(aliceCookie)
	b := dial(bobCookie)
	anon := dial(nil)

	require.Eventually(t, func() bool { return deps.Hub.Registry().Len() == 3 }, time.Second, 10*time.Millisecond)
	assert.Len(t, deps.Hub.Snapshot(), 2)

	require.NoError(t, a.WriteJSON(map[string]string{"recipient": bob.ID, "text": "hi"}))

	require.NoError(t, b.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		var frame map[string]any
		require.NoError(t, b.ReadJSON(&frame))
		if frame["_id"] != nil {
			assert.Equal(t, "hi", frame["text"])
			assert.Equal(t, alice.ID, frame["sender"])
			break
		}
	}

	require.NoError(t, anon.SetReadDeadline(time.Now().Add(3*time.Second)))
	var presence map[string]any
	require.NoError(t, anon.ReadJSON(&presence))
	assert.Contains(t, presence, "online")
}
