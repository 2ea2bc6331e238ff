package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"relaychat/internal/app/user"
)

// Memory is a process-local Store. Safe for concurrent use.
type Memory struct {
	mu         sync.RWMutex
	accounts   map[string]Account
	byUsername map[string]string
	messages   []Message
	now        func() time.Time
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		accounts:   make(map[string]Account),
		byUsername: make(map[string]string),
		now:        time.Now,
	}
}

func (m *Memory) CreateUser(_ context.Context, username, passwordHash string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byUsername[username]; taken {
		return Account{}, ErrUsernameTaken
	}

	acc := Account{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    m.now(),
	}
	m.accounts[acc.ID] = acc
	m.byUsername[username] = acc.ID
	return acc, nil
}

func (m *Memory) FindUserByID(_ context.Context, id string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acc, nil
}

func (m *Memory) FindUserByUsername(_ context.Context, username string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byUsername[username]
	if !ok {
		return Account{}, ErrNotFound
	}
	return m.accounts[id], nil
}

func (m *Memory) ListUsers(_ context.Context) ([]user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]user.User, 0, len(m.accounts))
	for _, acc := range m.accounts {
		users = append(users, acc.Identity())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (m *Memory) CreateMessage(_ context.Context, msg NewMessage) (Message, error) {
	if !msg.valid() {
		return Message{}, ErrInvalidMessage
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored := Message{
		ID:        uuid.NewString(),
		Sender:    msg.Sender,
		Recipient: msg.Recipient,
		Text:      nonEmpty(msg.Text),
		File:      nonEmpty(msg.File),
		CreatedAt: m.now(),
	}
	m.messages = append(m.messages, stored)
	return stored, nil
}

func (m *Memory) FindMessages(_ context.Context, a, b string) ([]Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Message, 0)
	for _, msg := range m.messages {
		if (msg.Sender == a && msg.Recipient == b) || (msg.Sender == b && msg.Recipient == a) {
			out = append(out, msg)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
