package usecase

import (
	"strings"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

// PromptUsecase renders a buffer snapshot into the agent prompt.
// Rendering is deterministic: identical snapshots produce byte-identical
// output.
type PromptUsecase struct {
	header string
}

// NewPromptUsecase creates a new prompt usecase. header is prepended as its
// own line when non-empty.
func NewPromptUsecase(header string) *PromptUsecase {
	return &PromptUsecase{header: header}
}

// Render produces one `sender: text` line per message, strictly oldest
// first, newline-joined
func (uc *PromptUsecase) Render(snapshot []domain.Message) string {
	lines := make([]string, 0, len(snapshot)+1)
	if uc.header != "" {
		lines = append(lines, uc.header)
	}
	for i := range snapshot {
		lines = append(lines, snapshot[i].Line())
	}
	return strings.Join(lines, "\n")
}
