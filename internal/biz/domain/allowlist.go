package domain

import (
	"strconv"
	"strings"
)

// AllowEntry is one configured identity permitted to authorize access.
// Exactly one of the fields is set.
type AllowEntry struct {
	UserID   int64  // numeric Telegram user or chat ID
	Username string // normalized username (no @, lowercase)
	ChatLink string // normalized chat link target (lowercase)
}

// Allowlist holds the resolved allow-entries, shared read-only after startup.
type Allowlist struct {
	userIDs   map[int64]bool
	usernames map[string]bool
	chatIDs   map[int64]bool
	chatLinks map[string]bool
}

// ParseAllowEntries splits a comma-separated raw entry list
func ParseAllowEntries(raw string) []string {
	var entries []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// extractUsername normalizes an entry to a bare username, or "" if the
// entry is not a username/link form (invite links, paths).
func extractUsername(raw string) string {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "@")
	trimmed = strings.TrimPrefix(trimmed, "https://")
	trimmed = strings.TrimPrefix(trimmed, "http://")
	trimmed = strings.TrimPrefix(trimmed, "t.me/")
	if trimmed == "" || strings.HasPrefix(trimmed, "+") || strings.Contains(trimmed, "/") {
		return ""
	}
	return trimmed
}

// NewAllowlist resolves raw entries into an Allowlist.
// Numeric entries match both a sender ID and a chat ID (group IDs are
// negative). Username and t.me link entries match both a sender username and
// a public chat username, compared case-insensitively. Unresolvable entries
// are returned for the caller to report.
func NewAllowlist(entries []string) (*Allowlist, []string) {
	al := &Allowlist{
		userIDs:   make(map[int64]bool),
		usernames: make(map[string]bool),
		chatIDs:   make(map[int64]bool),
		chatLinks: make(map[string]bool),
	}
	var unresolved []string

	for _, entry := range entries {
		if id, err := strconv.ParseInt(entry, 10, 64); err == nil {
			al.userIDs[id] = true
			al.chatIDs[id] = true
			continue
		}
		if username := extractUsername(entry); username != "" {
			normalized := strings.ToLower(username)
			al.usernames[normalized] = true
			al.chatLinks[normalized] = true
			continue
		}
		unresolved = append(unresolved, entry)
	}

	return al, unresolved
}

// Empty reports whether no entry resolved
func (al *Allowlist) Empty() bool {
	return len(al.userIDs) == 0 && len(al.usernames) == 0 &&
		len(al.chatIDs) == 0 && len(al.chatLinks) == 0
}

// MatchesSender reports whether the sender identity is allowed
func (al *Allowlist) MatchesSender(userID int64, username string) bool {
	if al.userIDs[userID] {
		return true
	}
	return username != "" && al.usernames[strings.ToLower(username)]
}

// MatchesChat reports whether the chat identity is allowed
func (al *Allowlist) MatchesChat(chatID int64, chatUsername string) bool {
	if al.chatIDs[chatID] {
		return true
	}
	return chatUsername != "" && al.chatLinks[strings.ToLower(chatUsername)]
}
