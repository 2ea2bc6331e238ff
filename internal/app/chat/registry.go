package chat

import "sync"

// Registry is the set of live connections, keyed by connection handle.
// A user may own any number of entries. Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*Client
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*Client)}
}

// Add registers c under its handle.
func (r *Registry) Add(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.conns[c.id] = c
}

// Remove unregisters c and reports whether it was present.
func (r *Registry) Remove(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[c.id]; !ok || current != c {
		return false
	}
	delete(r.conns, c.id)
	return true
}

// List returns the live connections in no particular order.
func (r *Registry) List() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Client, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}

// FindByUserID returns every connection bound to userID. Anonymous connections never match.
func (r *Registry) FindByUserID(userID string) []*Client {
	if userID == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Client
	for _, c := range r.conns {
		if c.UserID() == userID {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.conns)
}
