package domain

import "time"

// ChatType represents the chat type
type ChatType string

const (
	ChatTypeGroup   ChatType = "group"
	ChatTypePrivate ChatType = "private"
)

// Message represents one chat message as delivered by the transport.
// Immutable once created.
type Message struct {
	ChatID         int64
	SenderID       int64
	SenderUsername string // Telegram username, "" if unset
	SenderName     string // display name used for prompt rendering
	Text           string
	Timestamp      time.Time
	MentionsBot    bool
	IsReplyToBot   bool
	FromBot        bool
}

// Line renders the message as a single prompt line
func (m *Message) Line() string {
	name := m.SenderName
	if name == "" {
		name = "unknown"
	}
	return name + ": " + m.Text
}

// Triggers reports whether the message addresses the bot (mention or reply)
func (m *Message) Triggers() bool {
	return m.MentionsBot || m.IsReplyToBot
}
