package service

import (
	"strings"
	"unicode"
)

const (
	titleMaxRunes       = 50
	defaultConversation = "New Traffic Law Question"
)

// ConversationTitle derives a title from the first message: at most 50 characters, cut back
// to the last whole word and suffixed with "..." when the message was longer.
func ConversationTitle(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return defaultConversation
	}

	runes := []rune(trimmed)
	if len(runes) <= titleMaxRunes {
		return trimmed
	}

	head := string(runes[:titleMaxRunes])
	words := strings.Fields(head)
	cutMidWord := !unicode.IsSpace(runes[titleMaxRunes-1]) && !unicode.IsSpace(runes[titleMaxRunes])
	if len(words) > 1 && cutMidWord {
		// the last word was cut mid-way
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ") + "..."
}
