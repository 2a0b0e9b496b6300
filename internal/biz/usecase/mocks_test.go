package usecase

import (
	"context"
	"sync"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// Mock implementations shared across the usecase tests

type mockChatStateRepo struct {
	mu         sync.Mutex
	buffers    map[int64][]domain.Message
	authorized map[int64]bool
	busy       map[int64]bool
}

func newMockChatStateRepo() *mockChatStateRepo {
	return &mockChatStateRepo{
		buffers:    make(map[int64][]domain.Message),
		authorized: make(map[int64]bool),
		busy:       make(map[int64]bool),
	}
}

func (m *mockChatStateRepo) Append(chatID int64, msg domain.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.buffers[chatID] = append(m.buffers[chatID], msg)
}

func (m *mockChatStateRepo) Snapshot(chatID int64) []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]domain.Message, len(m.buffers[chatID]))
	copy(snapshot, m.buffers[chatID])
	return snapshot
}

func (m *mockChatStateRepo) IsAuthorized(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authorized[chatID]
}

func (m *mockChatStateRepo) MarkAuthorized(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authorized[chatID] = true
}

func (m *mockChatStateRepo) TryAcquireBusy(chatID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy[chatID] {
		return false
	}
	m.busy[chatID] = true
	return true
}

func (m *mockChatStateRepo) ReleaseBusy(chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.busy[chatID] = false
}

type mockSessionRepo struct {
	sessions map[int64]*domain.Session
	saveErr  error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[int64]*domain.Session)}
}

func (m *mockSessionRepo) GetByChat(ctx context.Context, chatID int64) (*domain.Session, error) {
	return m.sessions[chatID], nil
}

func (m *mockSessionRepo) Save(ctx context.Context, session *domain.Session) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.sessions[session.ChatID] = session
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, chatID int64) error {
	delete(m.sessions, chatID)
	return nil
}

func (m *mockSessionRepo) Close() error { return nil }

// mockAgentRepo records each call and replies from a scripted queue
type mockAgentRepo struct {
	mu      sync.Mutex
	calls   []agentCall
	results []agentResult
}

type agentCall struct {
	prompt    string
	sessionID string
}

type agentResult struct {
	result *repo.ExecResult
	err    error
}

func (m *mockAgentRepo) Exec(ctx context.Context, prompt, sessionID string) (*repo.ExecResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, agentCall{prompt: prompt, sessionID: sessionID})
	if len(m.results) == 0 {
		return &repo.ExecResult{Output: "ok"}, nil
	}
	next := m.results[0]
	m.results = m.results[1:]
	return next.result, next.err
}
