package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mymmrac/telego"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/service"
	"github.com/anthropics/telegram-codex-gateway/telegram"
)

// TelegramServer bridges Telegram updates into the gateway service
type TelegramServer struct {
	client  *telegram.Client
	gateway *service.GatewayService
}

// NewTelegramServer creates a new Telegram server
func NewTelegramServer(client *telegram.Client, gateway *service.GatewayService) *TelegramServer {
	s := &TelegramServer{
		client:  client,
		gateway: gateway,
	}
	client.OnMessage(s.handleMessage)
	return s
}

// Start starts the server and blocks until Stop
func (s *TelegramServer) Start() error {
	fmt.Println("[Server] Telegram server starting")
	return s.client.Start()
}

// Stop stops the server
func (s *TelegramServer) Stop() {
	fmt.Println("[Server] Telegram server stopping")
	s.client.Stop()
}

// handleMessage normalizes one update and hands it to the gateway
func (s *TelegramServer) handleMessage(msg *telego.Message) {
	chatType := chatTypeOf(msg.Chat.Type)
	if chatType == "" {
		return // channels and other non-conversation chats
	}

	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	if text == "" {
		return // no text content to buffer
	}

	senderID := int64(0)
	senderUsername := ""
	senderName := ""
	fromBot := false
	if msg.From != nil {
		senderID = msg.From.ID
		senderUsername = msg.From.Username
		senderName = senderDisplayName(msg.From)
		fromBot = msg.From.IsBot
	}

	ctx := context.Background()

	if cmd := commandOf(text); cmd != "" {
		s.handleCommand(ctx, msg.Chat.ID, senderID, senderUsername, cmd)
		return
	}

	req := &service.MessageRequest{
		ChatID:         msg.Chat.ID,
		ChatType:       chatType,
		ChatUsername:   msg.Chat.Username,
		SenderID:       senderID,
		SenderUsername: senderUsername,
		SenderName:     senderName,
		Text:           text,
		Timestamp:      time.Unix(int64(msg.Date), 0),
		MentionsBot:    s.mentionsBot(msg, text),
		IsReplyToBot:   s.isReplyToBot(msg),
		FromBot:        fromBot,
	}
	s.gateway.HandleMessage(ctx, req)
}

// mentionsBot checks the message entities for a mention of this bot,
// either a plain @username mention or a text_mention carrying the user
func (s *TelegramServer) mentionsBot(msg *telego.Message, text string) bool {
	entities := msg.Entities
	if len(entities) == 0 {
		entities = msg.CaptionEntities
	}
	for _, entity := range entities {
		switch entity.Type {
		case "mention":
			if entity.Offset+entity.Length > len(text) {
				continue
			}
			mention := text[entity.Offset : entity.Offset+entity.Length]
			if strings.EqualFold(mention, "@"+s.client.BotUsername()) {
				return true
			}
		case "text_mention":
			if entity.User != nil && entity.User.ID == s.client.BotID() {
				return true
			}
		}
	}
	return false
}

// isReplyToBot reports whether the message replies to one of this bot's own
func (s *TelegramServer) isReplyToBot(msg *telego.Message) bool {
	reply := msg.ReplyToMessage
	return reply != nil && reply.From != nil && reply.From.IsBot && reply.From.ID == s.client.BotID()
}

// handleCommand serves /help and /status for allowed senders. Commands from
// anyone else are ignored without a reply.
func (s *TelegramServer) handleCommand(ctx context.Context, chatID, senderID int64, senderUsername, cmd string) {
	if !s.gateway.IsAllowedSender(senderID, senderUsername) {
		return
	}
	switch cmd {
	case "help":
		_ = s.client.SendMessage(ctx, chatID,
			"Mention me or reply to one of my messages and I will run the request through the coding agent.\n"+
				"Commands:\n/help - this message\n/status - liveness check", "")
	case "status":
		_ = s.client.SendMessage(ctx, chatID, fmt.Sprintf("Online as @%s", s.client.BotUsername()), "")
	}
}

// senderDisplayName picks the best human-readable name for prompt lines:
// username first, then first+last name
func senderDisplayName(user *telego.User) string {
	if user.Username != "" {
		return user.Username
	}
	name := user.FirstName
	if user.LastName != "" {
		name += " " + user.LastName
	}
	return name
}

// commandOf extracts a bare command name from "/cmd" or "/cmd@botname" at the
// start of the text. Returns "" for non-commands and unknown commands.
func commandOf(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.Fields(text)[0][1:]
	if at := strings.Index(cmd, "@"); at != -1 {
		cmd = cmd[:at]
	}
	switch cmd {
	case "help", "status":
		return cmd
	}
	return ""
}

// chatTypeOf maps Telegram chat types onto the domain; "" means unsupported
func chatTypeOf(t string) domain.ChatType {
	switch t {
	case "private":
		return domain.ChatTypePrivate
	case "group", "supergroup":
		return domain.ChatTypeGroup
	}
	return ""
}
