package repo

import (
	"context"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

// SessionRepo is the session repository interface.
// Responsible for codex session persistence (SQLite).
type SessionRepo interface {
	// GetByChat gets a session by chat ID; nil if none stored
	GetByChat(ctx context.Context, chatID int64) (*domain.Session, error)

	// Save saves a session (create or update)
	Save(ctx context.Context, session *domain.Session) error

	// Delete deletes a session
	Delete(ctx context.Context, chatID int64) error

	// Close closes the underlying store
	Close() error
}
