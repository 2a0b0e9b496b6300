package usecase

import (
	"fmt"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// AccessDecision represents the outcome of an access evaluation
type AccessDecision string

const (
	AccessAlreadyAuthorized AccessDecision = "already_authorized"
	AccessAuthorized        AccessDecision = "authorized"
	AccessDenied            AccessDecision = "denied"
)

// AccessUsecase decides whether a chat becomes authorized from an event.
// Authorization is monotonic: once granted it never reverts for the
// process lifetime.
type AccessUsecase struct {
	allowlist *domain.Allowlist
	chatState repo.ChatStateRepo
	debug     bool
}

// NewAccessUsecase creates a new access usecase
func NewAccessUsecase(allowlist *domain.Allowlist, chatState repo.ChatStateRepo, debug bool) *AccessUsecase {
	return &AccessUsecase{
		allowlist: allowlist,
		chatState: chatState,
		debug:     debug,
	}
}

// Evaluate applies the access rules in order: already authorized, chat
// identity match, sender identity match, denied. Denied produces no reply
// anywhere down the pipeline.
func (uc *AccessUsecase) Evaluate(chatID int64, senderID int64, senderUsername, chatUsername string) AccessDecision {
	if uc.chatState.IsAuthorized(chatID) {
		return AccessAlreadyAuthorized
	}
	if uc.allowlist.MatchesChat(chatID, chatUsername) {
		uc.chatState.MarkAuthorized(chatID)
		fmt.Printf("[Access] Authorized chat_id=%d via chat identity\n", chatID)
		return AccessAuthorized
	}
	if uc.allowlist.MatchesSender(senderID, senderUsername) {
		uc.chatState.MarkAuthorized(chatID)
		fmt.Printf("[Access] Authorized chat_id=%d via sender %d\n", chatID, senderID)
		return AccessAuthorized
	}
	if uc.debug {
		fmt.Printf("[Access] Denied chat_id=%d sender_id=%d\n", chatID, senderID)
	}
	return AccessDenied
}

// IsAllowedSender reports whether the sender identity itself is allowed
func (uc *AccessUsecase) IsAllowedSender(senderID int64, senderUsername string) bool {
	return uc.allowlist.MatchesSender(senderID, senderUsername)
}
