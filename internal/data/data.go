package data

import (
	"github.com/anthropics/telegram-codex-gateway/codex"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
	"github.com/anthropics/telegram-codex-gateway/telegram"
)

// Repositories bundles all repository implementations
type Repositories struct {
	ChatState repo.ChatStateRepo
	Session   repo.SessionRepo
	Agent     repo.AgentRepo
	Transport repo.TransportRepo
}

// NewRepositories wires the data layer
func NewRepositories(
	telegramClient *telegram.Client,
	codexClient *codex.Client,
	sessionDBPath string,
	bufferCapacity int,
) (*Repositories, error) {
	sessionRepo, err := NewSessionRepo(sessionDBPath)
	if err != nil {
		return nil, err
	}
	return &Repositories{
		ChatState: NewChatStateRepo(bufferCapacity),
		Session:   sessionRepo,
		Agent:     NewAgentRepo(codexClient),
		Transport: NewTransportRepo(telegramClient),
	}, nil
}

// Close releases repository resources
func (r *Repositories) Close() error {
	return r.Session.Close()
}
