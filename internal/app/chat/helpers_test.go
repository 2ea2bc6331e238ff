package chat

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"relaychat/internal/app/storage"
	"relaychat/internal/app/store"
	"relaychat/internal/app/user"
)

// fakeConn is an in-memory Conn. ReadMessage blocks until Close.
type fakeConn struct {
	mu       sync.Mutex
	written  [][]byte
	pings     int
	closeCode int
	closed    bool
	closeErr error
	pingErr  error

	done chan struct{}
	once sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.done
	return 0, nil, io.EOF
}

func (f *fakeConn) WriteMessage(_ int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("closed")
	}
	f.written = append(f.written, data)
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if messageType == websocket.PingMessage {
		f.pings++
		return f.pingErr
	}
	if messageType == websocket.CloseMessage && len(data) >= 2 {
		f.closeCode = int(binary.BigEndian.Uint16(data))
	}
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	f.once.Do(func() { close(f.done) })
	return f.closeErr
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) sentCloseCode() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeCode
}

// fakeBlobs records writes, or fails them when err is set.
type fakeBlobs struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func (b *fakeBlobs) Write(_ context.Context, name string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.files == nil {
		b.files = make(map[string][]byte)
	}
	b.files[name] = data
	return nil
}

func (b *fakeBlobs) Read(_ context.Context, name string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

// failingMessages rejects every message.
type failingMessages struct{}

func (failingMessages) CreateMessage(context.Context, store.NewMessage) (store.Message, error) {
	return store.Message{}, errors.New("database unavailable")
}

// slowMessages stores into an in-memory store after a fixed delay.
type slowMessages struct {
	delay time.Duration
	inner *store.Memory
	calls atomic.Int32
}

func (s *slowMessages) CreateMessage(ctx context.Context, msg store.NewMessage) (store.Message, error) {
	time.Sleep(s.delay)
	s.calls.Add(1)
	return s.inner.CreateMessage(ctx, msg)
}

func quietHub(messages MessageStore, blobs storage.BlobStore) *Hub {
	return NewHub(HubConfig{HeartbeatInterval: time.Hour, HeartbeatTimeout: time.Minute}, messages, blobs)
}

// attach registers a client without running its pumps, so its queue can be inspected.
func attach(h *Hub, identity *user.User) *Client {
	c := newClient(h, newFakeConn(), identity)
	h.registry.Add(c)
	return c
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case data := <-c.send:
			out = append(out, data)
		default:
			return out
		}
	}
}

func strPtr(s string) *string { return &s }

func requireNoFrame(t *testing.T, c *Client) {
	t.Helper()
	require.Empty(t, drain(c))
}
