/*
This file defines the Hub, the central coordinator of the relay. It owns the connection
registry, registers and tears down connections exactly once, and triggers a presence
broadcast on every membership change. Each connection runs three goroutines: ReadPump,
RoutePump and WritePump.
*/
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"relaychat/internal/app/storage"
	"relaychat/internal/app/user"
	"relaychat/internal/pkg/logx"
)

// HubConfig holds the liveness settings applied to every connection.
type HubConfig struct {
	HeartbeatInterval time.Duration
	HeartbeatTimeout  time.Duration
}

// Hub coordinates all live connections.
type Hub struct {
	// read-only liveness settings.
	cfg HubConfig

	// every live connection, anonymous ones included.
	registry *Registry

	// persists and delivers chat frames.
	router *Router

	// guards the closing transition against concurrent registration.
	mu sync.Mutex

	// set once Shutdown starts; refuses new connections and suppresses presence broadcasts.
	closing atomic.Bool

	// tracks registered Serve calls so Shutdown can wait for them.
	wg sync.WaitGroup

	// structured logger with hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub. blobs may be nil, in which case attachments are dropped.
func NewHub(cfg HubConfig, messages MessageStore, blobs storage.BlobStore) *Hub {
	h := &Hub{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   logx.Component("hub"),
	}
	h.router = NewRouter(h.registry, messages, blobs)
	return h
}

// Registry returns the live connection set.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// register adds conn to the registry, starts its heartbeat and notifies everyone of the
// new presence snapshot. Once Shutdown has started the connection is closed with 1001
// instead and nil is returned.
func (h *Hub) register(conn Conn, identity *user.User) *Client {
	c := newClient(h, conn, identity)

	h.mu.Lock()
	if h.closing.Load() {
		h.mu.Unlock()
		c.logger.Info().Msg("Connection refused: hub is shutting down.")
		c.close(websocket.CloseGoingAway, "server shutting down")
		return nil
	}
	h.registry.Add(c)
	h.wg.Add(1)
	h.mu.Unlock()

	c.heartbeat.Start()

	c.logger.Info().Bool("anonymous", identity == nil).Int("connections", h.registry.Len()).Msg("Client connected.")

	h.NotifyAll()
	return c
}

// Serve registers conn and blocks until the connection is gone.
func (h *Hub) Serve(conn Conn, identity *user.User) {
	c := h.register(conn, identity)
	if c == nil {
		return
	}
	defer h.wg.Done()

	go c.WritePump()
	go c.RoutePump()
	c.ReadPump()
}

// disconnect tears c down. Only the call that actually removes it from the registry
// logs and broadcasts presence, so concurrent triggers (read error, write error,
// heartbeat death) collapse into one removal.
func (h *Hub) disconnect(c *Client) {
	c.close(0, "")

	if !h.registry.Remove(c) {
		return
	}

	c.logger.Info().Int("connections", h.registry.Len()).Msg("Client disconnected.")

	if !h.closing.Load() {
		h.NotifyAll()
	}
}

// handleFrame decodes one inbound text frame on the reader goroutine. Heartbeat replies
// are applied at once; chat frames are queued for RoutePump. Malformed frames are logged
// and dropped.
func (h *Hub) handleFrame(c *Client, data []byte) {
	var frame InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		c.logger.Warn().Err(err).Int("frame_bytes", len(data)).Msg("Client sent invalid JSON")
		return
	}

	if frame.Type == FramePong {
		c.heartbeat.Pong()
		return
	}

	c.queueInbound(frame.ChatFrame())
}

// route persists and delivers one chat frame from c.
func (h *Hub) route(c *Client, frame ChatFrame) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	msg, delivered, err := h.router.Route(ctx, c, frame)
	if err != nil {
		c.logger.Warn().Err(err).Str("recipient", frame.Recipient).Msg("Message dropped")
		return
	}

	c.logger.Debug().
		Str("message_id", msg.ID).
		Str("recipient", msg.Recipient).
		Int("delivered", delivered).
		Msg("Message routed")
}

// Shutdown closes every connection with a going-away frame and waits for their Serve
// calls to return, or for ctx to end.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.logger.Info().Msg("Shutting down hub...")

	h.mu.Lock()
	h.closing.Store(true)
	h.mu.Unlock()

	for _, c := range h.registry.List() {
		c.close(websocket.CloseGoingAway, "server shutting down")
		h.registry.Remove(c)
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.logger.Info().Msg("Hub shutdown complete.")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
