package telegram

import (
	"strings"
	"unicode/utf8"
)

// Telegram rejects messages past ~4096 chars; these limits leave headroom
// for entity expansion the way the platform counts it.
const (
	MaxPlainMessageLength    = 3900
	MaxMarkdownMessageLength = 3500
)

// SplitMessage splits text into parts of at most limit characters,
// preferring to cut at a newline when one falls in the latter part of the
// window. Returns a single empty part for empty input.
func SplitMessage(text string, limit int) []string {
	if text == "" {
		return []string{""}
	}
	var parts []string
	remaining := text
	for remaining != "" {
		if len(remaining) <= limit {
			parts = append(parts, remaining)
			break
		}
		cut := strings.LastIndex(remaining[:limit+1], "\n")
		if cut == -1 || cut < limit*4/10 {
			cut = limit
			// A forced cut must not land inside a multi-byte rune
			for cut > 0 && !utf8.RuneStart(remaining[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit // limit smaller than one rune, keep progress
			}
		}
		parts = append(parts, remaining[:cut])
		remaining = strings.TrimPrefix(remaining[cut:], "\n")
	}
	return parts
}
