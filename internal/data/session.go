package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// sessionRepo implements repo.SessionRepo backed by SQLite
type sessionRepo struct {
	db *sql.DB
}

// NewSessionRepo opens (and initializes if needed) the session database
func NewSessionRepo(dbPath string) (repo.SessionRepo, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create session db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS sessions (
		chat_id INTEGER PRIMARY KEY,
		session_id TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session schema: %w", err)
	}

	fmt.Printf("[Data] Session store ready at %s\n", dbPath)
	return &sessionRepo{db: db}, nil
}

// GetByChat gets the stored session for a chat; nil when none exists
func (r *sessionRepo) GetByChat(ctx context.Context, chatID int64) (*domain.Session, error) {
	var sessionID string
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx,
		"SELECT session_id, created_at, updated_at FROM sessions WHERE chat_id = ?",
		chatID,
	).Scan(&sessionID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	return &domain.Session{
		ChatID:    chatID,
		SessionID: sessionID,
		CreatedAt: time.Unix(createdAt, 0),
		UpdatedAt: time.Unix(updatedAt, 0),
	}, nil
}

// Save creates or replaces the chat's session row
func (r *sessionRepo) Save(ctx context.Context, session *domain.Session) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO sessions (chat_id, session_id, created_at, updated_at) VALUES (?, ?, ?, ?)",
		session.ChatID, session.SessionID, session.CreatedAt.Unix(), session.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Delete removes the chat's session row; deleting a missing row is not an error
func (r *sessionRepo) Delete(ctx context.Context, chatID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE chat_id = ?", chatID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the database
func (r *sessionRepo) Close() error {
	return r.db.Close()
}
