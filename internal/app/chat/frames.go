package chat

import (
	"relaychat/internal/app/user"
)

// FramePong is the type tag of an application-level heartbeat reply, for clients
// that cannot answer WebSocket ping control frames.
const FramePong = "pong"

// InboundFrame is any JSON text frame received from a client. Frames without a
// type tag are chat messages.
type InboundFrame struct {
	Type      string       `json:"type,omitempty"`
	Recipient string       `json:"recipient"`
	Text      *string      `json:"text,omitempty"`
	File      *FilePayload `json:"file,omitempty"`
}

// ChatFrame returns the message part of the frame.
func (f InboundFrame) ChatFrame() ChatFrame {
	return ChatFrame{Recipient: f.Recipient, Text: f.Text, File: f.File}
}

// ChatFrame is an outgoing message as requested by its sender.
type ChatFrame struct {
	Recipient string
	Text      *string
	File      *FilePayload
}

// FilePayload is an inline attachment: the original file name and its content,
// base64 encoded, optionally as a data URL.
type FilePayload struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// PresenceFrame is the presence snapshot pushed to every connection.
type PresenceFrame struct {
	Online []user.User `json:"online"`
}
