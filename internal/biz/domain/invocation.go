package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvocationStatus represents the lifecycle state of an agent run
type InvocationStatus string

const (
	InvocationRunning   InvocationStatus = "running"
	InvocationSucceeded InvocationStatus = "succeeded"
	InvocationFailed    InvocationStatus = "failed"
	InvocationTimedOut  InvocationStatus = "timed_out"
)

// Invocation represents one agent run for one chat.
// Created at trigger time, discarded when the run completes.
type Invocation struct {
	ID        string
	ChatID    int64
	Prompt    string
	StartedAt time.Time
	Status    InvocationStatus
}

// NewInvocation creates a running invocation for the chat
func NewInvocation(chatID int64, prompt string) *Invocation {
	return &Invocation{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Prompt:    prompt,
		StartedAt: time.Now(),
		Status:    InvocationRunning,
	}
}

// Elapsed returns the time since the invocation started
func (inv *Invocation) Elapsed() time.Duration {
	return time.Since(inv.StartedAt)
}
