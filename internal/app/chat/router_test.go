package chat

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relaychat/internal/app/store"
	"relaychat/internal/app/user"
)

var (
	alice = user.User{ID: "u1", Username: "alice"}
	bob   = user.User{ID: "u2", Username: "bob"}
)

func decodeMessage(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestRouter_DeliversToEveryRecipientConnection(t *testing.T) {
	messages := store.NewMemory()
	h := quietHub(messages, &fakeBlobs{})

	sender := attach(h, &alice)
	bobTab1 := attach(h, &bob)
	bobTab2 := attach(h, &bob)
	anon := attach(h, nil)

	msg, delivered, err := h.router.Route(context.Background(), sender, ChatFrame{Recipient: bob.ID, Text: strPtr("hi")})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)

	for _, c := range []*Client{bobTab1, bobTab2} {
		frames := drain(c)
		require.Len(t, frames, 1)
		got := decodeMessage(t, frames[0])
		assert.Equal(t, "hi", got["text"])
		assert.Equal(t, alice.ID, got["sender"])
		assert.Equal(t, bob.ID, got["recipient"])
		assert.Equal(t, msg.ID, got["_id"])
		assert.Nil(t, got["file"])
	}
	requireNoFrame(t, sender)
	requireNoFrame(t, anon)

	history, err := messages.FindMessages(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, msg.ID, history[0].ID)
}

func TestRouter_OfflineRecipientIsPersistedOnly(t *testing.T) {
	messages := store.NewMemory()
	h := quietHub(messages, nil)
	sender := attach(h, &alice)

	_, delivered, err := h.router.Route(context.Background(), sender, ChatFrame{Recipient: bob.ID, Text: strPtr("later")})
	require.NoError(t, err)
	assert.Zero(t, delivered)

	history, err := messages.FindMessages(context.Background(), bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRouter_SelfMessageReachesOwnConnections(t *testing.T) {
	h := quietHub(store.NewMemory(), nil)
	tab1 := attach(h, &alice)
	tab2 := attach(h, &alice)

	_, delivered, err := h.router.Route(context.Background(), tab1, ChatFrame{Recipient: alice.ID, Text: strPtr("note to self")})
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Len(t, drain(tab2), 1)
}

func TestRouter_StoresAttachment(t *testing.T) {
	blobs := &fakeBlobs{}
	h := quietHub(store.NewMemory(), blobs)
	sender := attach(h, &alice)
	receiver := attach(h, &bob)

	frame := ChatFrame{
		Recipient: bob.ID,
		File:      &FilePayload{Name: "voice.webm", Data: "data:audio/webm;base64,aGVsbG8="},
	}
	msg, _, err := h.router.Route(context.Background(), sender, frame)
	require.NoError(t, err)

	require.NotNil(t, msg.File)
	assert.Regexp(t, regexp.MustCompile(`^\d+-[0-9A-Za-z]{8}\.webm$`), *msg.File)
	assert.Nil(t, msg.Text)
	assert.Equal(t, []byte("hello"), blobs.files[*msg.File])

	frames := drain(receiver)
	require.Len(t, frames, 1)
	assert.Equal(t, *msg.File, decodeMessage(t, frames[0])["file"])
}

func TestRouter_AttachmentFailureKeepsText(t *testing.T) {
	h := quietHub(store.NewMemory(), &fakeBlobs{err: errors.New("disk full")})
	sender := attach(h, &alice)
	receiver := attach(h, &bob)

	frame := ChatFrame{Recipient: bob.ID, Text: strPtr("see attached"), File: &FilePayload{Name: "a.png", Data: "aGVsbG8="}}
	msg, delivered, err := h.router.Route(context.Background(), sender, frame)
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Nil(t, msg.File)
	require.NotNil(t, msg.Text)
	assert.Equal(t, "see attached", *msg.Text)
	assert.Len(t, drain(receiver), 1)
}

func TestRouter_FileOnlyStorageFailureStillDelivers(t *testing.T) {
	tests := map[string]struct {
		blobs *fakeBlobs
		file  *FilePayload
	}{
		"write fails":  {blobs: &fakeBlobs{err: errors.New("disk full")}, file: &FilePayload{Name: "v.webm", Data: "aGVsbG8="}},
		"undecodable":  {blobs: &fakeBlobs{}, file: &FilePayload{Name: "v.webm", Data: "!!!"}},
		"empty upload": {blobs: &fakeBlobs{}, file: &FilePayload{Name: "v.webm"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			messages := store.NewMemory()
			h := quietHub(messages, tt.blobs)
			sender := attach(h, &alice)
			receiver := attach(h, &bob)

			msg, delivered, err := h.router.Route(context.Background(), sender, ChatFrame{Recipient: bob.ID, File: tt.file})
			require.NoError(t, err)
			assert.Equal(t, 1, delivered)
			assert.Nil(t, msg.File)
			assert.Nil(t, msg.Text)

			frames := drain(receiver)
			require.Len(t, frames, 1)
			got := decodeMessage(t, frames[0])
			assert.Contains(t, got, "file")
			assert.Nil(t, got["file"])
			assert.Equal(t, msg.ID, got["_id"])

			history, err := messages.FindMessages(context.Background(), alice.ID, bob.ID)
			require.NoError(t, err)
			assert.Len(t, history, 1)
		})
	}
}

func TestRouter_Drops(t *testing.T) {
	tests := []struct {
		name     string
		anon     bool
		blobs    *fakeBlobs
		messages MessageStore
		frame    ChatFrame
		wantErr  error
	}{
		{
			name:    "anonymous sender",
			anon:    true,
			frame:   ChatFrame{Recipient: bob.ID, Text: strPtr("hi")},
			wantErr: ErrAnonymousSender,
		},
		{
			name:    "missing recipient",
			frame:   ChatFrame{Text: strPtr("hi")},
			wantErr: ErrMissingRecipient,
		},
		{
			name:    "no text and no file",
			frame:   ChatFrame{Recipient: bob.ID},
			wantErr: ErrEmptyMessage,
		},
		{
			name:    "empty text",
			frame:   ChatFrame{Recipient: bob.ID, Text: strPtr("")},
			wantErr: ErrEmptyMessage,
		},
		{
			name:     "persist failure",
			messages: failingMessages{},
			frame:    ChatFrame{Recipient: bob.ID, Text: strPtr("hi")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := tt.messages
			if messages == nil {
				messages = store.NewMemory()
			}
			blobs := tt.blobs
			if blobs == nil {
				blobs = &fakeBlobs{}
			}
			h := quietHub(messages, blobs)

			identity := &alice
			if tt.anon {
				identity = nil
			}
			sender := attach(h, identity)
			receiver := attach(h, &bob)

			_, delivered, err := h.router.Route(context.Background(), sender, tt.frame)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, delivered)
			requireNoFrame(t, receiver)
		})
	}
}

func TestHub_HandleFrame(t *testing.T) {
	h := quietHub(store.NewMemory(), nil)
	sender := attach(h, &alice)
	receiver := attach(h, &bob)

	h.handleFrame(sender, []byte(`{not json`))
	assert.Empty(t, sender.inbound)

	h.handleFrame(sender, []byte(`{"type":"pong"}`))
	assert.Empty(t, sender.inbound, "heartbeat replies are handled on the reader")

	h.handleFrame(sender, []byte(`{"recipient":"u2","text":"hi"}`))
	require.Len(t, sender.inbound, 1)
	requireNoFrame(t, receiver)

	h.route(sender, <-sender.inbound)
	frames := drain(receiver)
	require.Len(t, frames, 1)
	assert.Equal(t, "hi", decodeMessage(t, frames[0])["text"])
}

func TestClient_RoutePumpKeepsOrder(t *testing.T) {
	h := quietHub(store.NewMemory(), nil)
	sender := attach(h, &alice)
	receiver := attach(h, &bob)

	for _, text := range []string{"one", "two", "three"} {
		h.handleFrame(sender, []byte(`{"recipient":"u2","text":"`+text+`"}`))
	}

	stopped := make(chan struct{})
	go func() {
		sender.RoutePump()
		close(stopped)
	}()

	require.Eventually(t, func() bool { return len(receiver.send) == 3 }, time.Second, 5*time.Millisecond)
	frames := drain(receiver)
	for i, text := range []string{"one", "two", "three"} {
		assert.Equal(t, text, decodeMessage(t, frames[i])["text"])
	}

	sender.close(0, "")
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("RoutePump did not stop after close")
	}
}

func TestClient_RoutePumpFlushesQueueOnClose(t *testing.T) {
	h := quietHub(store.NewMemory(), nil)
	sender := attach(h, &alice)
	receiver := attach(h, &bob)

	h.handleFrame(sender, []byte(`{"recipient":"u2","text":"last words"}`))
	sender.close(0, "")
	sender.RoutePump()

	frames := drain(receiver)
	require.Len(t, frames, 1)
	assert.Equal(t, "last words", decodeMessage(t, frames[0])["text"])
}

func TestClient_InboundQueueDropsWhenFull(t *testing.T) {
	h := quietHub(store.NewMemory(), nil)
	sender := attach(h, &alice)

	for i := 0; i < inboundQueueSize; i++ {
		require.True(t, sender.queueInbound(ChatFrame{Recipient: "u2", Text: strPtr("x")}))
	}
	assert.False(t, sender.queueInbound(ChatFrame{Recipient: "u2", Text: strPtr("overflow")}))
	assert.Len(t, sender.inbound, inboundQueueSize)
}
