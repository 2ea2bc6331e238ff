package chat

import (
	"encoding/json"
	"sort"

	"relaychat/internal/app/user"
)

// Snapshot returns the identities of all authenticated connections, one entry per user
// however many connections they hold, ordered by username then id.
func (h *Hub) Snapshot() []user.User {
	seen := make(map[string]struct{})
	online := make([]user.User, 0)

	for _, c := range h.registry.List() {
		identity := c.Identity()
		if identity == nil {
			continue
		}
		if _, dup := seen[identity.ID]; dup {
			continue
		}
		seen[identity.ID] = struct{}{}
		online = append(online, *identity)
	}

	sort.Slice(online, func(i, j int) bool {
		if online[i].Username != online[j].Username {
			return online[i].Username < online[j].Username
		}
		return online[i].ID < online[j].ID
	})
	return online
}

// NotifyAll sends the current presence snapshot to every live connection, anonymous
// ones included, and returns how many accepted it.
func (h *Hub) NotifyAll() int {
	payload, err := json.Marshal(PresenceFrame{Online: h.Snapshot()})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode presence frame")
		return 0
	}

	sent := 0
	for _, c := range h.registry.List() {
		if c.enqueue(payload) {
			sent++
		}
	}
	return sent
}
