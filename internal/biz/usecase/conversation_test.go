package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

func newConvFixture(agent *mockAgentRepo, sessionRepo *mockSessionRepo) (*ConversationUsecase, *mockChatStateRepo) {
	chatState := newMockChatStateRepo()
	sessionUC := NewSessionUsecase(sessionRepo, domain.SessionConfig{IdleTimeout: time.Hour})
	promptUC := NewPromptUsecase("")
	uc := NewConversationUsecase(chatState, sessionUC, promptUC, agent, time.Minute)
	return uc, chatState
}

func TestConversationInvoke_RendersSnapshot(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{result: &repo.ExecResult{Output: "done", SessionID: "thread-1"}},
	}}
	uc, chatState := newConvFixture(agent, newMockSessionRepo())

	chatState.Append(1, domain.Message{SenderName: "userA", Text: "hi"})
	chatState.Append(1, domain.Message{SenderName: "userB", Text: "@bot help"})

	output, err := uc.Invoke(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "done" {
		t.Errorf("Output = %q, want %q", output, "done")
	}
	if len(agent.calls) != 1 {
		t.Fatalf("Expected 1 agent call, got %d", len(agent.calls))
	}
	if agent.calls[0].prompt != "userA: hi\nuserB: @bot help" {
		t.Errorf("Prompt = %q", agent.calls[0].prompt)
	}
	if agent.calls[0].sessionID != "" {
		t.Errorf("First invocation should not resume, got session %q", agent.calls[0].sessionID)
	}
}

func TestConversationInvoke_StoresReportedSession(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{result: &repo.ExecResult{Output: "done", SessionID: "thread-9"}},
	}}
	sessionRepo := newMockSessionRepo()
	uc, _ := newConvFixture(agent, sessionRepo)

	if _, err := uc.Invoke(context.Background(), 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	saved := sessionRepo.sessions[1]
	if saved == nil || saved.SessionID != "thread-9" {
		t.Errorf("Expected session thread-9 stored, got %+v", saved)
	}
}

func TestConversationInvoke_ResumesStoredSession(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{result: &repo.ExecResult{Output: "done", SessionID: "thread-abc"}},
	}}
	sessionRepo := newMockSessionRepo()
	sessionRepo.sessions[1] = &domain.Session{
		ChatID: 1, SessionID: "thread-abc", UpdatedAt: time.Now(),
	}
	uc, _ := newConvFixture(agent, sessionRepo)

	if _, err := uc.Invoke(context.Background(), 1); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if agent.calls[0].sessionID != "thread-abc" {
		t.Errorf("Expected resume of thread-abc, got %q", agent.calls[0].sessionID)
	}
}

func TestConversationInvoke_RetriesFreshAfterFailedResume(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{err: &repo.AgentError{Kind: repo.ErrorKindFailure, Excerpt: "no such thread"}},
		{result: &repo.ExecResult{Output: "recovered", SessionID: "thread-new"}},
	}}
	sessionRepo := newMockSessionRepo()
	sessionRepo.sessions[1] = &domain.Session{
		ChatID: 1, SessionID: "thread-gone", UpdatedAt: time.Now(),
	}
	uc, _ := newConvFixture(agent, sessionRepo)

	output, err := uc.Invoke(context.Background(), 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if output != "recovered" {
		t.Errorf("Output = %q", output)
	}
	if len(agent.calls) != 2 {
		t.Fatalf("Expected resume + fresh retry, got %d calls", len(agent.calls))
	}
	if agent.calls[1].sessionID != "" {
		t.Errorf("Retry should start fresh, got session %q", agent.calls[1].sessionID)
	}
	if saved := sessionRepo.sessions[1]; saved == nil || saved.SessionID != "thread-new" {
		t.Errorf("Expected replacement session stored, got %+v", saved)
	}
}

func TestConversationInvoke_TimeoutSurfaces(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{err: &repo.AgentError{Kind: repo.ErrorKindTimeout}},
	}}
	uc, _ := newConvFixture(agent, newMockSessionRepo())

	_, err := uc.Invoke(context.Background(), 1)
	var agentErr *repo.AgentError
	if !errors.As(err, &agentErr) || agentErr.Kind != repo.ErrorKindTimeout {
		t.Fatalf("Expected timeout error, got %v", err)
	}
	// A timeout without a prior session must not trigger the fresh retry
	if len(agent.calls) != 1 {
		t.Errorf("Expected single agent call, got %d", len(agent.calls))
	}
}

func TestConversationInvoke_FreshFailureNotRetried(t *testing.T) {
	agent := &mockAgentRepo{results: []agentResult{
		{err: &repo.AgentError{Kind: repo.ErrorKindFailure, Excerpt: "boom"}},
	}}
	uc, _ := newConvFixture(agent, newMockSessionRepo())

	if _, err := uc.Invoke(context.Background(), 1); err == nil {
		t.Fatal("Expected error")
	}
	if len(agent.calls) != 1 {
		t.Errorf("Fresh-run failure must not be retried, got %d calls", len(agent.calls))
	}
}
