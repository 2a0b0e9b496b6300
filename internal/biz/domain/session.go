package domain

import "time"

// Session represents a persisted codex conversation binding for one chat
type Session struct {
	ChatID    int64
	SessionID string // codex thread id, used for `codex exec resume`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionConfig represents session configuration (value object)
type SessionConfig struct {
	IdleTimeout time.Duration // Idle timeout; 0 disables expiry
}

// IsFresh checks if the session can still be resumed
func (s *Session) IsFresh(cfg SessionConfig) bool {
	if cfg.IdleTimeout <= 0 {
		return true
	}
	return time.Since(s.UpdatedAt) <= cfg.IdleTimeout
}

// Touch updates active time
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
