/*
Package chat is the real-time core of the relay: live WebSocket connections, their
liveness, presence fan-out and point-to-point message delivery.

This file defines the Client struct, one registered connection. It owns the read and
write loops and the outbound queue that decouples producers from slow sockets.
*/
package chat

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"relaychat/internal/app/user"
	"relaychat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum allowed size (in bytes) of a frame sent by the client. Attachments travel inline.
	maxFrameSize = 16 << 20

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256

	// capacity of the per-connection queue of chat frames awaiting routing.
	inboundQueueSize = 64
)

// Conn is the part of *websocket.Conn the relay depends on.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetReadLimit(limit int64)
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one live connection and, when authenticated, the identity bound to it.
type Client struct {
	// opaque handle, unique per connection.
	id string

	// the hub the client is registered with.
	hub *Hub

	// underlying WebSocket connection object.
	conn Conn

	// bound identity; nil for anonymous connections. Never changes after construction.
	identity *user.User

	// outbound queue drained by WritePump. Never closed; done signals shutdown instead.
	send chan []byte

	// chat frames drained in order by RoutePump, so slow storage never stalls ReadPump.
	inbound chan ChatFrame

	// closed once when the connection is torn down.
	done      chan struct{}
	closeOnce sync.Once

	heartbeat *Heartbeat

	// structured logger with connection context.
	logger zerolog.Logger
}

func newClient(hub *Hub, conn Conn, identity *user.User) *Client {
	c := &Client{
		id:       randx.ConnectionID(),
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan []byte, sendQueueSize),
		inbound:  make(chan ChatFrame, inboundQueueSize),
		done:     make(chan struct{}),
	}

	lc := hub.logger.With().Str("conn_id", c.id)
	if identity != nil {
		lc = lc.Str("user_id", identity.ID)
	}
	c.logger = lc.Logger()

	c.heartbeat = NewHeartbeat(hub.cfg.HeartbeatInterval, hub.cfg.HeartbeatTimeout, c.ping, func() {
		c.logger.Info().Msg("Heartbeat timed out, terminating connection.")
		hub.disconnect(c)
	})

	return c
}

// ID returns the connection handle.
func (c *Client) ID() string {
	return c.id
}

// Identity returns a copy of the bound identity, or nil for anonymous connections.
func (c *Client) Identity() *user.User {
	if c.identity == nil {
		return nil
	}
	u := *c.identity
	return &u
}

// UserID returns the bound user id, or "" for anonymous connections.
func (c *Client) UserID() string {
	if c.identity == nil {
		return ""
	}
	return c.identity.ID
}

// Heartbeat exposes the liveness state machine of the connection.
func (c *Client) Heartbeat() *Heartbeat {
	return c.heartbeat
}

// Done is closed once the connection has been torn down.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// enqueue queues data for the write loop without blocking. A full queue drops the frame.
func (c *Client) enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		c.logger.Warn().Int("queue_size", cap(c.send)).Msg("Outbound queue full, frame dropped.")
		return false
	}
}

// ping sends a WebSocket ping control frame. WriteControl is safe alongside WritePump.
func (c *Client) ping() error {
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// queueInbound hands a chat frame to RoutePump without blocking the reader.
// A full queue drops the frame.
func (c *Client) queueInbound(frame ChatFrame) bool {
	select {
	case c.inbound <- frame:
		return true
	default:
		c.logger.Warn().Int("queue_size", cap(c.inbound)).Msg("Inbound queue full, frame dropped.")
		return false
	}
}

// ReadPump reads frames in arrival order and hands each one to the hub. It never waits
// on storage, so control frames (pongs) keep being processed while messages are routed.
// It returns, and tears the connection down, on the first read error.
func (c *Client) ReadPump() {
	defer c.hub.disconnect(c)

	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetPongHandler(func(string) error {
		c.heartbeat.Pong()
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.logger.Debug().Int("message_type", messageType).Msg("Ignoring non-text frame")
			continue
		}

		c.hub.handleFrame(c, data)
	}
}

// WritePump drains the outbound queue until the connection is torn down.
func (c *Client) WritePump() {
	for {
		select {
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.hub.disconnect(c)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug().Err(err).Msg("Write failed")
				c.hub.disconnect(c)
				return
			}

		case <-c.done:
			return
		}
	}
}

// RoutePump routes queued chat frames one at a time, preserving the order they were read.
// Frames already queued when the connection closes are still routed.
func (c *Client) RoutePump() {
	for {
		select {
		case frame := <-c.inbound:
			c.hub.route(c, frame)

		case <-c.done:
			for {
				select {
				case frame := <-c.inbound:
					c.hub.route(c, frame)
				default:
					return
				}
			}
		}
	}
}

// close tears the connection down once: stops the heartbeat, releases both pumps and
// closes the socket. A non-zero code is sent to the peer as a close frame first.
func (c *Client) close(code int, reason string) {
	c.closeOnce.Do(func() {
		c.heartbeat.Stop()
		close(c.done)

		if code != 0 {
			msg := websocket.FormatCloseMessage(code, reason)
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		}

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error")
		}
	})
}
