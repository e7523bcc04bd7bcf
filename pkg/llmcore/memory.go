package llmcore

import (
	"context"

	"github.com/google/uuid"
)

// MemoryMessage is one prior conversation turn retrievable for prompt
// assembly, role-mapped onto Message{Role: "user"|"assistant"} by Core.
type MemoryMessage struct {
	Role    string
	Content string
}

// MemoryProvider supplies the conversation memory window prepended ahead
// of the final user message (spec.md §4.4, step 2: "prepend retrieved
// memory messages (selected by step filter, count limit, and role
// mapping)"). Implemented by pkg/conversation; declared here, dependency-
// inverted, so pkg/llmcore never imports the not-yet-built package.
type MemoryProvider interface {
	// RecentMessages returns up to limit messages for conversationID,
	// most-recent-first. Core reverses the slice to chronological order
	// before prepending it to the prompt.
	RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]MemoryMessage, error)
}
