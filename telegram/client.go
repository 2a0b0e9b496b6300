package telegram

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// Client wraps the Telegram Bot API with long polling and message sending
type Client struct {
	bot       *telego.Bot
	onMessage func(msg *telego.Message)

	botID       int64
	botUsername string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a new Telegram client
func NewClient(token string) (*Client, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Client{bot: bot}, nil
}

// OnMessage sets the inbound message handler
func (c *Client) OnMessage(handler func(msg *telego.Message)) {
	c.onMessage = handler
}

// Start resolves the bot identity and blocks on long polling until Stop
func (c *Client) Start() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	me, err := c.bot.GetMe(c.ctx)
	if err != nil {
		return fmt.Errorf("get bot identity: %w", err)
	}
	c.botID = me.ID
	c.botUsername = me.Username
	fmt.Printf("[Telegram] Resolved bot identity: id=%d username=%s\n", c.botID, c.botUsername)

	updates, err := c.bot.UpdatesViaLongPolling(c.ctx, &telego.GetUpdatesParams{
		Timeout:        30,
		AllowedUpdates: []string{"message"},
	})
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	fmt.Println("[Telegram] Long polling started")

	for {
		select {
		case <-c.ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil && c.onMessage != nil {
				c.onMessage(update.Message)
			}
		}
	}
}

// Stop cancels the polling context
func (c *Client) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// BotID returns the bot's own user ID (valid after Start)
func (c *Client) BotID() int64 {
	return c.botID
}

// BotUsername returns the bot's username without @ (valid after Start)
func (c *Client) BotUsername() string {
	return c.botUsername
}

// SendMessage sends a text message. parseMode may be empty for plain text.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text, parseMode string) error {
	params := tu.Message(tu.ID(chatID), text)
	params.ParseMode = parseMode
	params.LinkPreviewOptions = &telego.LinkPreviewOptions{IsDisabled: true}
	_, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendTyping emits a typing chat action
func (c *Client) SendTyping(ctx context.Context, chatID int64) error {
	return c.bot.SendChatAction(ctx, tu.ChatAction(tu.ID(chatID), telego.ChatActionTyping))
}
