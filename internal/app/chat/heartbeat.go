package chat

import (
	"sync"
	"time"
)

// HeartbeatState is the liveness state of one connection.
type HeartbeatState int

const (
	// StateAlive means the last ping was answered (or none was sent yet).
	StateAlive HeartbeatState = iota

	// StateAwaitingPong means a ping is outstanding and the timeout is armed.
	StateAwaitingPong

	// StateDead is terminal: the ping went unanswered or could not be sent.
	StateDead
)

func (s HeartbeatState) String() string {
	switch s {
	case StateAlive:
		return "alive"
	case StateAwaitingPong:
		return "awaiting_pong"
	case StateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Heartbeat pings one connection every interval and declares it dead when a ping is
// not answered within timeout.
//
// It owns a single timer: while alive it points at the next ping, while awaiting a
// pong it points at the deadline. Every re-arm bumps a generation counter so a timer
// that fired concurrently with Pong or Stop is ignored.
type Heartbeat struct {
	interval time.Duration
	timeout  time.Duration

	// ping sends one liveness ping. An error counts as an immediate death.
	ping func() error

	// onDead runs at most once, outside the lock.
	onDead func()

	now func() time.Time

	mu       sync.Mutex
	state    HeartbeatState
	timer    *time.Timer
	gen      uint64
	pingedAt time.Time
	lastPong time.Time
	stopped  bool
}

// NewHeartbeat returns a heartbeat in the alive state. Nothing runs until Start.
func NewHeartbeat(interval, timeout time.Duration, ping func() error, onDead func()) *Heartbeat {
	return &Heartbeat{
		interval: interval,
		timeout:  timeout,
		ping:     ping,
		onDead:   onDead,
		now:      time.Now,
	}
}

// Start schedules the first ping one interval from now.
func (h *Heartbeat) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || h.timer != nil {
		return
	}
	h.lastPong = h.now()
	h.armLocked(h.interval)
}

// Pong records an answer to the outstanding ping. The next ping stays on the
// original interval grid.
func (h *Heartbeat) Pong() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopped || h.state == StateDead {
		return
	}

	now := h.now()
	h.lastPong = now

	if h.state != StateAwaitingPong {
		return
	}
	h.state = StateAlive

	next := h.pingedAt.Add(h.interval).Sub(now)
	if next < 0 {
		next = 0
	}
	h.armLocked(next)
}

// Stop cancels the timer. onDead is not called. Safe to call more than once.
func (h *Heartbeat) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.stopped = true
	h.disarmLocked()
}

// State returns the current liveness state.
func (h *Heartbeat) State() HeartbeatState {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// LastPong returns when the connection last proved it was alive.
func (h *Heartbeat) LastPong() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.lastPong
}

func (h *Heartbeat) armLocked(d time.Duration) {
	h.disarmLocked()
	gen := h.gen
	h.timer = time.AfterFunc(d, func() { h.fire(gen) })
}

func (h *Heartbeat) disarmLocked() {
	h.gen++
	if h.timer != nil {
		h.timer.Stop()
	}
}

func (h *Heartbeat) fire(gen uint64) {
	h.mu.Lock()
	if h.stopped || gen != h.gen {
		h.mu.Unlock()
		return
	}

	switch h.state {
	case StateAlive:
		h.state = StateAwaitingPong
		h.pingedAt = h.now()
		h.armLocked(h.timeout)
		h.mu.Unlock()

		if err := h.ping(); err != nil {
			h.die()
		}

	case StateAwaitingPong:
		h.state = StateDead
		h.disarmLocked()
		h.mu.Unlock()

		h.onDead()

	default:
		h.mu.Unlock()
	}
}

func (h *Heartbeat) die() {
	h.mu.Lock()
	if h.stopped || h.state == StateDead {
		h.mu.Unlock()
		return
	}
	h.state = StateDead
	h.disarmLocked()
	h.mu.Unlock()

	h.onDead()
}
