package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// ConversationUsecase orchestrates one agent invocation for one chat:
// snapshot → prompt → session resolve → agent exec → session update.
// The caller owns the busy flag; this usecase is invocation-only.
type ConversationUsecase struct {
	chatState repo.ChatStateRepo
	sessionUC *SessionUsecase
	promptUC  *PromptUsecase
	agentRepo repo.AgentRepo
	timeout   time.Duration
}

// NewConversationUsecase creates a new conversation usecase
func NewConversationUsecase(
	chatState repo.ChatStateRepo,
	sessionUC *SessionUsecase,
	promptUC *PromptUsecase,
	agentRepo repo.AgentRepo,
	timeout time.Duration,
) *ConversationUsecase {
	return &ConversationUsecase{
		chatState: chatState,
		sessionUC: sessionUC,
		promptUC:  promptUC,
		agentRepo: agentRepo,
		timeout:   timeout,
	}
}

// Invoke runs the agent against the chat's current buffer snapshot and
// returns the agent's output verbatim. Failures are *repo.AgentError.
func (uc *ConversationUsecase) Invoke(ctx context.Context, chatID int64) (string, error) {
	snapshot := uc.chatState.Snapshot(chatID)
	prompt := uc.promptUC.Render(snapshot)
	inv := domain.NewInvocation(chatID, prompt)

	decision, err := uc.sessionUC.Resolve(ctx, chatID)
	if err != nil {
		// Session store trouble only costs continuity, not the run
		fmt.Printf("[ConvUC] Session resolve failed, starting fresh: %v\n", err)
		decision = &SessionDecision{IsNew: true}
	}

	execCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	result, err := uc.agentRepo.Exec(execCtx, prompt, decision.SessionID)
	if err != nil && decision.SessionID != "" && isAgentFailure(err) {
		// The stored codex session may be gone; retry once fresh,
		// still under the same deadline
		fmt.Printf("[ConvUC] Resume of session %s failed, retrying fresh; chat_id=%d\n", decision.SessionID, chatID)
		_ = uc.sessionUC.Forget(ctx, chatID)
		result, err = uc.agentRepo.Exec(execCtx, prompt, "")
	}
	if err != nil {
		inv.Status = domain.InvocationFailed
		var agentErr *repo.AgentError
		if errors.As(err, &agentErr) && agentErr.Kind == repo.ErrorKindTimeout {
			inv.Status = domain.InvocationTimedOut
		}
		fmt.Printf("[ConvUC] Invocation %s %s after %.2fs; chat_id=%d: %v\n",
			inv.ID, inv.Status, inv.Elapsed().Seconds(), chatID, err)
		return "", err
	}

	inv.Status = domain.InvocationSucceeded
	if result.SessionID == "" {
		fmt.Printf("[ConvUC] No session id returned from codex; chat_id=%d\n", chatID)
	} else if storeErr := uc.sessionUC.StoreResult(ctx, chatID, result.SessionID); storeErr != nil {
		fmt.Printf("[ConvUC] Warning: failed to store session: %v\n", storeErr)
	}

	fmt.Printf("[ConvUC] Invocation %s succeeded after %.2fs; chat_id=%d prompt=%d chars reply=%d chars\n",
		inv.ID, inv.Elapsed().Seconds(), chatID, len(prompt), len(result.Output))
	return result.Output, nil
}

func isAgentFailure(err error) bool {
	var agentErr *repo.AgentError
	return errors.As(err, &agentErr) && agentErr.Kind == repo.ErrorKindFailure
}
