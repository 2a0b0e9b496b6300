package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/usecase"
	"github.com/anthropics/telegram-codex-gateway/internal/conf"
)

// typingInterval is how often the typing indicator is refreshed while an
// invocation runs. Telegram expires the indicator after ~5 seconds.
const typingInterval = 4 * time.Second

// MessageRequest is a normalized inbound chat event
type MessageRequest struct {
	ChatID         int64
	ChatType       domain.ChatType
	ChatUsername   string
	SenderID       int64
	SenderUsername string
	SenderName     string
	Text           string
	Timestamp      time.Time
	MentionsBot    bool
	IsReplyToBot   bool
	FromBot        bool
}

// GatewayService handles the full inbound pipeline: buffer, access, trigger,
// busy gating, invocation, reply dispatch
type GatewayService struct {
	accessUC  *usecase.AccessUsecase
	triggerUC *usecase.TriggerUsecase
	convUC    *usecase.ConversationUsecase
	chatState repo.ChatStateRepo
	transport repo.TransportRepo

	workers    *semaphore.Weighted
	busyPolicy conf.BusyPolicy
	notices    conf.NoticeTexts
}

// NewGatewayService creates a new gateway service
func NewGatewayService(
	accessUC *usecase.AccessUsecase,
	triggerUC *usecase.TriggerUsecase,
	convUC *usecase.ConversationUsecase,
	chatState repo.ChatStateRepo,
	transport repo.TransportRepo,
	workerPoolSize int,
	busyPolicy conf.BusyPolicy,
	notices conf.NoticeTexts,
) *GatewayService {
	if workerPoolSize < 1 {
		workerPoolSize = 1
	}
	return &GatewayService{
		accessUC:   accessUC,
		triggerUC:  triggerUC,
		convUC:     convUC,
		chatState:  chatState,
		transport:  transport,
		workers:    semaphore.NewWeighted(int64(workerPoolSize)),
		busyPolicy: busyPolicy,
		notices:    notices,
	}
}

// HandleMessage processes one inbound event. It returns quickly: agent
// invocations run on their own goroutine under the worker pool.
func (s *GatewayService) HandleMessage(ctx context.Context, req *MessageRequest) {
	msg := domain.Message{
		ChatID:         req.ChatID,
		SenderID:       req.SenderID,
		SenderUsername: req.SenderUsername,
		SenderName:     req.SenderName,
		Text:           req.Text,
		Timestamp:      req.Timestamp,
		MentionsBot:    req.MentionsBot,
		IsReplyToBot:   req.IsReplyToBot,
		FromBot:        req.FromBot,
	}

	// Buffer before access so the first authorized trigger sees prior
	// context from the same chat
	s.chatState.Append(req.ChatID, msg)

	decision := s.accessUC.Evaluate(req.ChatID, req.SenderID, req.SenderUsername, req.ChatUsername)
	if decision == usecase.AccessDenied {
		return
	}

	if !s.triggerUC.ShouldTrigger(&msg, req.ChatType, true) {
		return
	}

	if !s.chatState.TryAcquireBusy(req.ChatID) {
		s.handleBusy(ctx, req.ChatID)
		return
	}

	go s.runInvocation(context.WithoutCancel(ctx), req.ChatID)
}

// handleBusy applies the configured busy policy to a rejected trigger
func (s *GatewayService) handleBusy(ctx context.Context, chatID int64) {
	if s.busyPolicy == conf.BusyPolicyDrop {
		fmt.Printf("[Gateway] Dropped trigger while busy; chat_id=%d\n", chatID)
		return
	}
	if err := s.transport.SendText(ctx, chatID, s.notices.Busy); err != nil {
		fmt.Printf("[Gateway] Failed to send busy notice; chat_id=%d: %v\n", chatID, err)
	}
}

// runInvocation owns the chat's busy slot for the duration of one agent run
func (s *GatewayService) runInvocation(ctx context.Context, chatID int64) {
	defer s.chatState.ReleaseBusy(chatID)

	if err := s.workers.Acquire(ctx, 1); err != nil {
		fmt.Printf("[Gateway] Worker acquire aborted; chat_id=%d: %v\n", chatID, err)
		return
	}
	defer s.workers.Release(1)

	typingCtx, stopTyping := context.WithCancel(ctx)
	go s.typingLoop(typingCtx, chatID)

	output, err := s.convUC.Invoke(ctx, chatID)
	stopTyping()

	reply := output
	if err != nil {
		reply = s.noticeFor(err)
	}
	if sendErr := s.transport.SendText(ctx, chatID, reply); sendErr != nil {
		fmt.Printf("[Gateway] Failed to deliver reply; chat_id=%d: %v\n", chatID, sendErr)
	}
}

// typingLoop refreshes the typing indicator until the context is cancelled
func (s *GatewayService) typingLoop(ctx context.Context, chatID int64) {
	ticker := time.NewTicker(typingInterval)
	defer ticker.Stop()

	_ = s.transport.SendTyping(ctx, chatID)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.transport.SendTyping(ctx, chatID)
		}
	}
}

// noticeFor maps an invocation failure onto its user-visible notice
func (s *GatewayService) noticeFor(err error) string {
	var agentErr *repo.AgentError
	if errors.As(err, &agentErr) {
		switch agentErr.Kind {
		case repo.ErrorKindTimeout:
			return s.notices.Timeout
		case repo.ErrorKindFailure:
			if agentErr.Excerpt != "" {
				return s.notices.FormatFailure(agentErr.Excerpt)
			}
			return s.notices.FormatFailure("unknown failure")
		}
	}
	return s.notices.FormatFailure(err.Error())
}

// IsAllowedSender exposes sender-level allow checks for command handling
func (s *GatewayService) IsAllowedSender(senderID int64, senderUsername string) bool {
	return s.accessUC.IsAllowedSender(senderID, senderUsername)
}
