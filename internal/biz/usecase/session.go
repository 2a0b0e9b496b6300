package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// SessionUsecase handles codex session continuity per chat
type SessionUsecase struct {
	sessionRepo repo.SessionRepo
	config      domain.SessionConfig
}

// NewSessionUsecase creates a new session usecase
func NewSessionUsecase(sessionRepo repo.SessionRepo, config domain.SessionConfig) *SessionUsecase {
	return &SessionUsecase{
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// SessionDecision represents the resume decision for one invocation
type SessionDecision struct {
	SessionID string // "" means start a fresh codex session
	IsNew     bool
}

// Resolve decides whether to resume a stored session or start fresh.
// Stale sessions are deleted so the next lookup is cheap.
func (uc *SessionUsecase) Resolve(ctx context.Context, chatID int64) (*SessionDecision, error) {
	session, err := uc.sessionRepo.GetByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return &SessionDecision{IsNew: true}, nil
	}
	if !session.IsFresh(uc.config) {
		_ = uc.sessionRepo.Delete(ctx, chatID)
		return &SessionDecision{IsNew: true}, nil
	}
	return &SessionDecision{SessionID: session.SessionID, IsNew: false}, nil
}

// StoreResult persists the session id reported by a completed run
func (uc *SessionUsecase) StoreResult(ctx context.Context, chatID int64, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	now := time.Now()
	existing, err := uc.sessionRepo.GetByChat(ctx, chatID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session := &domain.Session{
		ChatID:    chatID,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing != nil {
		session.CreatedAt = existing.CreatedAt
	}
	if err := uc.sessionRepo.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Forget drops the stored session for a chat
func (uc *SessionUsecase) Forget(ctx context.Context, chatID int64) error {
	return uc.sessionRepo.Delete(ctx, chatID)
}
