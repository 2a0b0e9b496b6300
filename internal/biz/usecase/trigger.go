package usecase

import (
	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

// TriggerUsecase decides whether a buffered event should start an agent run.
// Evaluated only after the message has been appended and only for
// authorized chats.
type TriggerUsecase struct {
	allowlist *domain.Allowlist
}

// NewTriggerUsecase creates a new trigger usecase
func NewTriggerUsecase(allowlist *domain.Allowlist) *TriggerUsecase {
	return &TriggerUsecase{allowlist: allowlist}
}

// ShouldTrigger applies the trigger rules:
//   - unauthorized chats never fire
//   - bot-authored messages never fire
//   - the message must mention the bot or reply to it
//   - in private chats the sender must additionally be an allowed identity;
//     in groups chat-level authorization already covers access
func (uc *TriggerUsecase) ShouldTrigger(msg *domain.Message, chatType domain.ChatType, authorized bool) bool {
	if !authorized {
		return false
	}
	if msg.FromBot {
		return false
	}
	if !msg.Triggers() {
		return false
	}
	if chatType == domain.ChatTypePrivate {
		return uc.allowlist.MatchesSender(msg.SenderID, msg.SenderUsername)
	}
	return true
}
