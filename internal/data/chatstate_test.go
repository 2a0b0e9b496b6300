package data

import (
	"fmt"
	"sync"
	"testing"

	"github.com/anthropics/telegram-codex-gateway/internal/biz/domain"
)

func TestChatStateAppendEvictsOldest(t *testing.T) {
	repo := NewChatStateRepo(30)

	for i := 0; i < 35; i++ {
		repo.Append(1, domain.Message{Text: fmt.Sprintf("msg-%d", i)})
	}

	snapshot := repo.Snapshot(1)
	if len(snapshot) != 30 {
		t.Fatalf("Expected buffer capped at 30, got %d", len(snapshot))
	}
	if snapshot[0].Text != "msg-5" {
		t.Errorf("Expected oldest survivor msg-5, got %s", snapshot[0].Text)
	}
	if snapshot[29].Text != "msg-34" {
		t.Errorf("Expected newest msg-34, got %s", snapshot[29].Text)
	}
}

func TestChatStateSnapshotIsolation(t *testing.T) {
	repo := NewChatStateRepo(30)
	repo.Append(1, domain.Message{Text: "one"})

	snapshot := repo.Snapshot(1)
	snapshot[0].Text = "mutated"

	if got := repo.Snapshot(1)[0].Text; got != "one" {
		t.Errorf("Snapshot mutation leaked into the buffer: %s", got)
	}
}

func TestChatStateBuffersAreIndependent(t *testing.T) {
	repo := NewChatStateRepo(30)
	repo.Append(1, domain.Message{Text: "for chat 1"})
	repo.Append(2, domain.Message{Text: "for chat 2"})

	if n := len(repo.Snapshot(1)); n != 1 {
		t.Errorf("Chat 1 buffer length = %d, want 1", n)
	}
	if got := repo.Snapshot(2)[0].Text; got != "for chat 2" {
		t.Errorf("Chat 2 got wrong message: %s", got)
	}
}

func TestChatStateBusySingleFlight(t *testing.T) {
	repo := NewChatStateRepo(30)

	if !repo.TryAcquireBusy(1) {
		t.Fatal("First acquire should succeed")
	}
	if repo.TryAcquireBusy(1) {
		t.Fatal("Second acquire while busy should fail")
	}
	if !repo.TryAcquireBusy(2) {
		t.Fatal("Busy flag on chat 1 must not block chat 2")
	}

	repo.ReleaseBusy(1)
	if !repo.TryAcquireBusy(1) {
		t.Fatal("Acquire after release should succeed")
	}
}

func TestChatStateAuthorizedMonotonic(t *testing.T) {
	repo := NewChatStateRepo(30)

	if repo.IsAuthorized(1) {
		t.Fatal("New chat should start unauthorized")
	}
	repo.MarkAuthorized(1)
	repo.MarkAuthorized(1) // idempotent
	if !repo.IsAuthorized(1) {
		t.Fatal("Chat should stay authorized")
	}
	if repo.IsAuthorized(2) {
		t.Fatal("Authorization must not leak across chats")
	}
}

func TestChatStateConcurrentAppends(t *testing.T) {
	repo := NewChatStateRepo(100)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				repo.Append(1, domain.Message{Text: "x"})
			}
		}()
	}
	wg.Wait()

	if n := len(repo.Snapshot(1)); n != 100 {
		t.Errorf("Expected 100 messages after concurrent appends, got %d", n)
	}
}
