package repo

import "context"

// ErrorKind classifies agent invocation failures
type ErrorKind string

const (
	// ErrorKindTimeout means the agent process was killed after the
	// configured deadline elapsed
	ErrorKindTimeout ErrorKind = "timeout"

	// ErrorKindFailure means the agent exited nonzero or failed to start
	ErrorKindFailure ErrorKind = "failure"
)

// AgentError carries the failure class and a short diagnostic excerpt
type AgentError struct {
	Kind    ErrorKind
	Excerpt string
}

func (e *AgentError) Error() string {
	if e.Excerpt == "" {
		return "agent " + string(e.Kind)
	}
	return "agent " + string(e.Kind) + ": " + e.Excerpt
}

// ExecResult is a completed agent run
type ExecResult struct {
	Output    string // final agent message, verbatim
	SessionID string // codex thread id reported by this run, if any
}

// AgentRepo is the external agent interface.
// One call is one `codex exec` run: prompt in, captured output out.
type AgentRepo interface {
	// Exec runs the agent against the prompt. A non-empty sessionID
	// resumes a previous codex thread. Failures are *AgentError.
	Exec(ctx context.Context, prompt, sessionID string) (*ExecResult, error)
}
