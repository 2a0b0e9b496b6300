package data

import (
	"context"
	"errors"

	"github.com/anthropics/telegram-codex-gateway/codex"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// agentRepo implements repo.AgentRepo on top of the codex exec client
type agentRepo struct {
	client *codex.Client
}

// NewAgentRepo creates a new agent repository
func NewAgentRepo(client *codex.Client) repo.AgentRepo {
	return &agentRepo{client: client}
}

// Exec runs the agent and maps transport-level failures onto repo.AgentError
func (r *agentRepo) Exec(ctx context.Context, prompt, sessionID string) (*repo.ExecResult, error) {
	out, err := r.client.Exec(ctx, prompt, sessionID)
	if err != nil {
		if errors.Is(err, codex.ErrTimeout) {
			return nil, &repo.AgentError{Kind: repo.ErrorKindTimeout}
		}
		var execErr *codex.ExecError
		if errors.As(err, &execErr) {
			return nil, &repo.AgentError{Kind: repo.ErrorKindFailure, Excerpt: execErr.Stderr}
		}
		return nil, &repo.AgentError{Kind: repo.ErrorKindFailure, Excerpt: err.Error()}
	}
	return &repo.ExecResult{Output: out.Answer, SessionID: out.SessionID}, nil
}
