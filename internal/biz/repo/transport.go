package repo

import "context"

// TransportRepo is the outbound transport interface.
// Responsible for delivering replies back through the chat platform.
type TransportRepo interface {
	// SendText sends a text reply to the chat. Failures are returned to
	// the caller; the transport never retries in a way that could
	// duplicate a reply.
	SendText(ctx context.Context, chatID int64, text string) error

	// SendTyping emits a best-effort typing indicator
	SendTyping(ctx context.Context, chatID int64) error
}
