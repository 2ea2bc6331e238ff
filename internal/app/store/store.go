/*
Package store persists accounts and messages.

Postgres backs production; Memory serves development runs without a database and
the test suites of the packages above it.
*/
package store

import (
	"context"
	"errors"
	"time"

	"relaychat/internal/app/user"
)

var (
	// ErrNotFound is returned when a lookup matches nothing, including malformed ids.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned by CreateUser for a duplicate username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidMessage is returned for messages without a body or with unknown participants.
	ErrInvalidMessage = errors.New("invalid message")
)

// Account is a stored user including its credential hash.
type Account struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Identity returns the public part of the account.
func (a Account) Identity() user.User {
	return user.User{ID: a.ID, Username: a.Username}
}

// NewMessage is the input of CreateMessage. Sender and Recipient are required.
// Text and File may both be nil when the only attachment could not be stored.
type NewMessage struct {
	Sender    string
	Recipient string
	Text      *string
	File      *string
}

// Message is a persisted chat message. Its JSON form is the delivered wire frame.
type Message struct {
	ID        string    `json:"_id"`
	Sender    string    `json:"sender"`
	Recipient string    `json:"recipient"`
	Text      *string   `json:"text,omitempty"`
	File      *string   `json:"file"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the persistence contract used by the HTTP layer and the relay.
type Store interface {
	CreateUser(ctx context.Context, username, passwordHash string) (Account, error)
	FindUserByID(ctx context.Context, id string) (Account, error)
	FindUserByUsername(ctx context.Context, username string) (Account, error)
	ListUsers(ctx context.Context) ([]user.User, error)

	CreateMessage(ctx context.Context, msg NewMessage) (Message, error)

	// FindMessages returns the conversation between a and b, oldest first.
	FindMessages(ctx context.Context, a, b string) ([]Message, error)
}

func (m NewMessage) valid() bool {
	return m.Sender != "" && m.Recipient != ""
}
