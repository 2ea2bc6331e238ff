package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"relaychat/internal/app/db"
	dbc "relaychat/internal/app/db/sqlc"
	"relaychat/internal/app/user"
)

// Postgres implements Store over the generated queries.
type Postgres struct {
	queries *dbc.Queries
}

// NewPostgres wraps a pool, connection or transaction.
func NewPostgres(conn dbc.DBTX) *Postgres {
	return &Postgres{queries: dbc.New(conn)}
}

func (p *Postgres) CreateUser(ctx context.Context, username, passwordHash string) (Account, error) {
	row, err := p.queries.CreateUser(ctx, dbc.CreateUserParams{
		Username:     username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Account{}, ErrUsernameTaken
		}
		return Account{}, fmt.Errorf("create user: %w", err)
	}
	return accountFromRow(row), nil
}

func (p *Postgres) FindUserByID(ctx context.Context, id string) (Account, error) {
	uid, ok := parseUUID(id)
	if !ok {
		return Account{}, ErrNotFound
	}

	row, err := p.queries.GetUserByID(ctx, uid)
	if err != nil {
		if db.IsNoRows(err) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return accountFromRow(row), nil
}

func (p *Postgres) FindUserByUsername(ctx context.Context, username string) (Account, error) {
	row, err := p.queries.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return Account{}, ErrNotFound
		}
		return Account{}, fmt.Errorf("get user %q: %w", username, err)
	}
	return accountFromRow(row), nil
}

func (p *Postgres) ListUsers(ctx context.Context) ([]user.User, error) {
	rows, err := p.queries.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, user.User{ID: r.ID.String(), Username: r.Username})
	}
	return users, nil
}

func (p *Postgres) CreateMessage(ctx context.Context, msg NewMessage) (Message, error) {
	if !msg.valid() {
		return Message{}, ErrInvalidMessage
	}

	sender, ok := parseUUID(msg.Sender)
	if !ok {
		return Message{}, fmt.Errorf("%w: sender %q", ErrInvalidMessage, msg.Sender)
	}
	recipient, ok := parseUUID(msg.Recipient)
	if !ok {
		return Message{}, fmt.Errorf("%w: recipient %q", ErrInvalidMessage, msg.Recipient)
	}

	row, err := p.queries.CreateMessage(ctx, dbc.CreateMessageParams{
		SenderID:    sender,
		RecipientID: recipient,
		Text:        optionalText(msg.Text),
		File:        optionalText(msg.File),
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return Message{}, fmt.Errorf("%w: unknown participant", ErrInvalidMessage)
		}
		return Message{}, fmt.Errorf("create message: %w", err)
	}
	return messageFromRow(row), nil
}

func (p *Postgres) FindMessages(ctx context.Context, a, b string) ([]Message, error) {
	ua, okA := parseUUID(a)
	ub, okB := parseUUID(b)
	if !okA || !okB {
		return []Message{}, nil
	}

	rows, err := p.queries.ListConversation(ctx, dbc.ListConversationParams{UserA: ua, UserB: ub})
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}

	messages := make([]Message, 0, len(rows))
	for _, r := range rows {
		messages = append(messages, messageFromRow(r))
	}
	return messages, nil
}

func parseUUID(s string) (pgtype.UUID, bool) {
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		return pgtype.UUID{}, false
	}
	return id, id.Valid
}

func optionalText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func accountFromRow(u dbc.User) Account {
	return Account{
		ID:           u.ID.String(),
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.Time,
	}
}

func messageFromRow(m dbc.Message) Message {
	return Message{
		ID:        m.ID.String(),
		Sender:    m.SenderID.String(),
		Recipient: m.RecipientID.String(),
		Text:      textPtr(m.Text),
		File:      textPtr(m.File),
		CreatedAt: m.CreatedAt.Time,
	}
}
