package router

import (
	"strings"
)

// Prefix constants
const (
	PrefixReset  = "/reset"
	PrefixSearch = "/search"
)

// Mode represents how a message is routed
type Mode string

const (
	ModeChat   Mode = "CHAT"   // Default conversational turn
	ModeSearch Mode = "SEARCH" // Catalog search only, context untouched
	ModeReset  Mode = "RESET"  // Start the conversation over
)

// ParsedPrompt contains routing information extracted from a message
type ParsedPrompt struct {
	OriginalPrompt string
	CleanPrompt    string // Message without directive
	Mode           Mode
}

// Parse extracts routing directives from a message
// Supports:
//   - /reset        → forget the conversation
//   - /search <q>   → one-off catalog search
//   - <message>     → regular turn
func Parse(prompt string) *ParsedPrompt {
	trimmed := strings.TrimSpace(prompt)
	lower := strings.ToLower(trimmed)

	for _, d := range []struct {
		prefix string
		mode   Mode
	}{
		{PrefixReset, ModeReset},
		{PrefixSearch, ModeSearch},
	} {
		if !strings.HasPrefix(lower, d.prefix) {
			continue
		}
		rest := trimmed[len(d.prefix):]
		if rest != "" && rest[0] != ' ' {
			continue // "/searching" is not a directive
		}
		return &ParsedPrompt{
			OriginalPrompt: prompt,
			CleanPrompt:    strings.TrimSpace(rest),
			Mode:           d.mode,
		}
	}

	return &ParsedPrompt{
		OriginalPrompt: prompt,
		CleanPrompt:    trimmed,
		Mode:           ModeChat,
	}
}

// IsEmpty returns true if the clean prompt is empty
func (p *ParsedPrompt) IsEmpty() bool {
	return strings.TrimSpace(p.CleanPrompt) == ""
}
