package conversation

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/ent/message"
	"github.com/codeready-toolchain/hikari/pkg/llmcore"
	"github.com/google/uuid"
)

var _ llmcore.MemoryProvider = (*Store)(nil)

// RecentMessages implements llmcore.MemoryProvider: the limit most recent
// completed messages of conversationID, most-recent-first (Core reverses
// them before prepending to the prompt). A Send message (the system's own
// output) maps to role "assistant"; a Receive message (the user's input)
// maps to role "user" (spec.md §4.4's role mapping).
//
// Messages still Generating are excluded: a partially streamed turn is not
// yet a stable memory, and a step resuming mid-stream reattaches it via
// PriorGenerating instead of through the memory window.
func (s *Store) RecentMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]llmcore.MemoryMessage, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.client.Message.Query().
		Where(
			message.ConversationIDEQ(conversationID),
			message.StatusEQ(message.StatusCompleted),
		).
		Order(ent.Desc(message.FieldMessageOrder)).
		Limit(limit).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversation: recent messages: %w", err)
	}

	out := make([]llmcore.MemoryMessage, 0, len(rows))
	for _, row := range rows {
		role := "user"
		if row.Direction == message.DirectionSend {
			role = "assistant"
		}
		out = append(out, llmcore.MemoryMessage{Role: role, Content: row.Payload})
	}
	return out, nil
}
