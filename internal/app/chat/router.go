package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"relaychat/internal/app/storage"
	"relaychat/internal/app/store"
	"relaychat/internal/pkg/logx"
	"relaychat/internal/pkg/randx"
)

// time allowed for persisting one message.
const persistTimeout = 10 * time.Second

var (
	// ErrAnonymousSender is returned for frames from connections without an identity.
	ErrAnonymousSender = errors.New("sender is not authenticated")

	// ErrMissingRecipient is returned for frames without a recipient.
	ErrMissingRecipient = errors.New("frame has no recipient")

	// ErrEmptyMessage is returned for frames with neither text nor a file.
	ErrEmptyMessage = errors.New("frame has no text and no file")
)

// MessageStore persists delivered messages.
type MessageStore interface {
	CreateMessage(ctx context.Context, msg store.NewMessage) (store.Message, error)
}

// Router validates, persists and delivers chat frames.
type Router struct {
	registry *Registry
	messages MessageStore
	blobs    storage.BlobStore
	now      func() time.Time
	logger   zerolog.Logger
}

// NewRouter returns a router delivering through registry. blobs may be nil.
func NewRouter(registry *Registry, messages MessageStore, blobs storage.BlobStore) *Router {
	return &Router{
		registry: registry,
		messages: messages,
		blobs:    blobs,
		now:      time.Now,
		logger:   logx.Component("router"),
	}
}

// Route handles one chat frame from sender: stores its attachment, persists the message
// and pushes it to every connection of the recipient. It returns the stored message and
// the number of connections it was queued on.
//
// A failed attachment write drops only the file reference; the message is still
// persisted and delivered, with a null file. Nothing is delivered unless the message
// was persisted first.
func (r *Router) Route(ctx context.Context, sender *Client, frame ChatFrame) (store.Message, int, error) {
	from := sender.UserID()
	if from == "" {
		return store.Message{}, 0, ErrAnonymousSender
	}

	recipient := strings.TrimSpace(frame.Recipient)
	if recipient == "" {
		return store.Message{}, 0, ErrMissingRecipient
	}

	text := frame.Text
	if text != nil && *text == "" {
		text = nil
	}
	if text == nil && frame.File == nil {
		return store.Message{}, 0, ErrEmptyMessage
	}

	var file *string
	if frame.File != nil {
		name, err := r.storeAttachment(ctx, frame.File)
		if err != nil {
			r.logger.Warn().Err(err).Str("sender", from).Msg("Attachment not stored, delivering without file")
		} else {
			file = &name
		}
	}

	msg, err := r.messages.CreateMessage(ctx, store.NewMessage{
		Sender:    from,
		Recipient: recipient,
		Text:      text,
		File:      file,
	})
	if err != nil {
		return store.Message{}, 0, fmt.Errorf("persist message: %w", err)
	}

	return msg, r.deliver(msg), nil
}

func (r *Router) storeAttachment(ctx context.Context, f *FilePayload) (string, error) {
	if r.blobs == nil {
		return "", errors.New("no blob store configured")
	}

	data, err := decodeAttachment(f)
	if err != nil {
		return "", err
	}

	name := randx.BlobName(f.Name, r.now())
	if err := r.blobs.Write(ctx, name, data); err != nil {
		return "", fmt.Errorf("write blob %s: %w", name, err)
	}
	return name, nil
}

// deliver queues msg on every connection of its recipient. Recipients that are offline
// simply find it in their history later.
func (r *Router) deliver(msg store.Message) int {
	payload, err := json.Marshal(msg)
	if err != nil {
		r.logger.Error().Err(err).Str("message_id", msg.ID).Msg("Failed to encode message frame")
		return 0
	}

	delivered := 0
	for _, c := range r.registry.FindByUserID(msg.Recipient) {
		if c.enqueue(payload) {
			delivered++
		}
	}
	return delivered
}
