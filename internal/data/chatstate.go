package data

import (
	"fmt"
	"sync"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
	"github.com/anthropics/telegram-codex-gateway/internal/biz/repo"
)

// chatState holds the mutable state of one chat.
// All fields are guarded by mu; chats never share a lock.
type chatState struct {
	mu         sync.Mutex
	buffer     []domain.Message
	authorized bool
	busy       bool
}

// chatStateRepo implements the in-memory chat state store
type chatStateRepo struct {
	capacity int

	statesMu sync.RWMutex
	states   map[int64]*chatState
}

// NewChatStateRepo creates a new chat state store with the given buffer
// capacity per chat
func NewChatStateRepo(capacity int) repo.ChatStateRepo {
	if capacity <= 0 {
		capacity = 30
	}
	return &chatStateRepo{
		capacity: capacity,
		states:   make(map[int64]*chatState),
	}
}

// getState gets or lazily creates the state for a chat
func (r *chatStateRepo) getState(chatID int64) *chatState {
	r.statesMu.RLock()
	state, ok := r.states[chatID]
	r.statesMu.RUnlock()
	if ok {
		return state
	}

	r.statesMu.Lock()
	defer r.statesMu.Unlock()
	if state, ok = r.states[chatID]; ok {
		return state
	}
	state = &chatState{}
	r.states[chatID] = state
	return state
}

// Append inserts at the buffer tail, evicting from the head past capacity
func (r *chatStateRepo) Append(chatID int64, msg domain.Message) {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	state.buffer = append(state.buffer, msg)
	if len(state.buffer) > r.capacity {
		// Copy down instead of re-slicing so evicted heads are freed
		n := copy(state.buffer, state.buffer[len(state.buffer)-r.capacity:])
		state.buffer = state.buffer[:n]
	}
}

// Snapshot returns an immutable copy of the buffer
func (r *chatStateRepo) Snapshot(chatID int64) []domain.Message {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()

	snapshot := make([]domain.Message, len(state.buffer))
	copy(snapshot, state.buffer)
	return snapshot
}

// IsAuthorized reports whether the chat has been authorized
func (r *chatStateRepo) IsAuthorized(chatID int64) bool {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.authorized
}

// MarkAuthorized authorizes the chat; idempotent
func (r *chatStateRepo) MarkAuthorized(chatID int64) {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	state.authorized = true
}

// TryAcquireBusy claims the chat's single-flight slot
func (r *chatStateRepo) TryAcquireBusy(chatID int64) bool {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	if state.busy {
		return false
	}
	state.busy = true
	return true
}

// ReleaseBusy returns the chat to idle. A release without a matching
// acquire is an internal bug: logged, not fatal.
func (r *chatStateRepo) ReleaseBusy(chatID int64) {
	state := r.getState(chatID)
	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.busy {
		fmt.Printf("[ChatState] Invariant violation: busy released while idle; chat_id=%d\n", chatID)
		return
	}
	state.busy = false
}
