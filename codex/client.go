package codex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrTimeout is returned when the codex process is killed at the deadline
var ErrTimeout = errors.New("codex exec timed out")

// ExecError means codex exited nonzero or could not be started
type ExecError struct {
	Stderr string
	Err    error
}

func (e *ExecError) Error() string {
	if e.Stderr != "" {
		return "codex exec failed: " + e.Stderr
	}
	return "codex exec failed: " + e.Err.Error()
}

func (e *ExecError) Unwrap() error { return e.Err }

// Client runs one-shot `codex exec` invocations bound to a working directory
type Client struct {
	workingDir string
	model      string
}

// NewClient creates a new codex exec client
func NewClient(workingDir, model string) *Client {
	return &Client{workingDir: workingDir, model: model}
}

// buildArgs assembles the codex argument list. A non-empty sessionID resumes
// an existing thread; otherwise the working directory is passed via -C.
func (c *Client) buildArgs(sessionID string) []string {
	args := []string{"--dangerously-bypass-approvals-and-sandbox", "exec"}
	if sessionID != "" {
		args = append(args, "resume", sessionID, "--json")
	} else {
		args = append(args, "--json", "-C", c.workingDir)
	}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	return append(args, "-")
}

// Exec runs codex against the prompt and returns the parsed output.
// The context deadline bounds the whole run; on expiry the process is
// killed and ErrTimeout is returned.
func (c *Client) Exec(ctx context.Context, prompt, sessionID string) (ExecOutput, error) {
	cmd := exec.CommandContext(ctx, "codex", c.buildArgs(sessionID)...)
	if sessionID != "" {
		cmd.Dir = c.workingDir
	}
	cmd.Stdin = strings.NewReader(prompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Unblock Wait even if codex leaves grandchildren holding the pipes
	cmd.WaitDelay = 5 * time.Second

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return ExecOutput{}, ErrTimeout
	}
	if err != nil {
		return ExecOutput{}, &ExecError{Stderr: excerpt(stderr.String()), Err: err}
	}

	out := ParseExecOutput(stdout.String())
	if out.Answer == "" {
		return out, &ExecError{Stderr: "empty response from codex", Err: fmt.Errorf("no agent message in output")}
	}
	out.Answer = strings.TrimSpace(out.Answer)
	return out, nil
}

// excerpt trims stderr to a short single-excerpt diagnostic
func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 300 {
		cut := 300
		// Never truncate inside a multi-byte rune
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}
