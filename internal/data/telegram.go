package data

import (
	"context"
	"fmt"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
	"github.com/anthropics/telegram-codex-gateway/telegram"
)

// telegramRepo implements repo.TransportRepo over the Telegram client.
// Replies are sent as Markdown when they fit the tighter Markdown limit,
// falling back per part to plain text when Telegram rejects the formatting.
type telegramRepo struct {
	client *telegram.Client
}

// NewTransportRepo creates a new Telegram transport repository
func NewTransportRepo(client *telegram.Client) repo.TransportRepo {
	return &telegramRepo{client: client}
}

// SendText delivers text to the chat, splitting into parts when it exceeds
// the platform limit. Each part is attempted as Markdown first; a part that
// Telegram rejects (unbalanced entities after splitting) is resent plain.
func (r *telegramRepo) SendText(ctx context.Context, chatID int64, text string) error {
	limit := telegram.MaxMarkdownMessageLength
	markdown := true
	if len(text) > limit {
		// Long replies split mid-entity too easily for Markdown to survive
		limit = telegram.MaxPlainMessageLength
		markdown = false
	}

	parts := telegram.SplitMessage(text, limit)
	for i, part := range parts {
		var err error
		if markdown {
			err = r.client.SendMessage(ctx, chatID, part, "Markdown")
			if err != nil {
				fmt.Printf("[Transport] Markdown send rejected, retrying plain; chat_id=%d part=%d: %v\n", chatID, i+1, err)
				err = r.client.SendMessage(ctx, chatID, part, "")
			}
		} else {
			err = r.client.SendMessage(ctx, chatID, part, "")
		}
		if err != nil {
			return fmt.Errorf("send part %d/%d: %w", i+1, len(parts), err)
		}
	}
	return nil
}

// SendTyping emits a typing indicator; failures are the caller's to ignore
func (r *telegramRepo) SendTyping(ctx context.Context, chatID int64) error {
	return r.client.SendTyping(ctx, chatID)
}
