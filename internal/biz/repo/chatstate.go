package repo

import (
	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

// ChatStateRepo is the per-chat state store interface.
// State is in-memory, created lazily per chat and kept for the process
// lifetime. Mutation is serialized per chat; different chats never contend.
type ChatStateRepo interface {
	// Append inserts a message at the tail of the chat's buffer,
	// evicting from the head when the capacity is exceeded
	Append(chatID int64, msg domain.Message)

	// Snapshot returns an immutable copy of the chat's buffer, taken
	// atomically with respect to concurrent appends
	Snapshot(chatID int64) []domain.Message

	// IsAuthorized reports whether the chat has been authorized
	IsAuthorized(chatID int64) bool

	// MarkAuthorized authorizes the chat; idempotent, never reverts
	MarkAuthorized(chatID int64)

	// TryAcquireBusy attempts to claim the chat's single-flight slot.
	// Returns false if an invocation is already running for the chat.
	TryAcquireBusy(chatID int64) bool

	// ReleaseBusy returns the chat to idle. Releasing an idle chat is an
	// invariant violation: it is logged and otherwise ignored.
	ReleaseBusy(chatID int64)
}
