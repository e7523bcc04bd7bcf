package orchestrator

import (
	"context"

	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/google/uuid"
)

// Direction mirrors the Message entity's direction enum (spec.md §3):
// which side of the conversation produced a message.
type Direction string

const (
	DirectionSend    Direction = "send"
	DirectionReceive Direction = "receive"
)

// ContentType mirrors the Message entity's content_type enum.
type ContentType string

const (
	ContentTypeText    ContentType = "text"
	ContentTypePayload ContentType = "payload"
	ContentTypeButtons ContentType = "buttons"
)

// StepState is the Go-side view of one ConversationState row: the step
// program's suspend point plus the pending response carried across
// suspension (spec.md §3's "value (opaque JSON pending response)").
type StepState struct {
	Status      step.Status
	CurrentStep string
	Response    string
}

// ConversationStore is the persistence port the Conversation Orchestrator
// depends on, implemented by pkg/conversation. Declared here (the
// consumer) rather than there, mirroring the dependency-inversion already
// used for pkg/llmcore.MemoryProvider and pkg/step.Deps, so this package
// never imports the not-yet-built pkg/conversation.
type ConversationStore interface {
	// LoadState returns the conversation's current step state, or a zero
	// StepState (Status: step.StatusNotStarted, CurrentStep: "") if no
	// ConversationState row exists yet.
	LoadState(ctx context.Context, conversationID uuid.UUID) (StepState, error)
	// SaveState upserts the conversation's ConversationState row.
	SaveState(ctx context.Context, conversationID uuid.UUID, state StepState) error
	// CompleteConversation marks the Conversation itself Completed (spec.md
	// §4.5's final "mark Conversation Completed").
	CompleteConversation(ctx context.Context, conversationID uuid.UUID) error

	// NextMessageOrder returns the order value to assign to the next
	// message appended to conversationID (spec.md §5: "order=current_count").
	NextMessageOrder(ctx context.Context, conversationID uuid.UUID) (int, error)
	// StartMessage creates a new Generating message and returns its id.
	StartMessage(ctx context.Context, conversationID uuid.UUID, stepID string, order int, direction Direction, contentType ContentType, content string) (uuid.UUID, error)
	// UpdateMessage overwrites a Generating message's content (called as
	// each stream chunk arrives; the orchestrator, not the store, buffers
	// the running total).
	UpdateMessage(ctx context.Context, messageID uuid.UUID, content string) error
	// CompleteMessage sets a message's final content and transitions it to
	// Completed.
	CompleteMessage(ctx context.Context, messageID uuid.UUID, content string) error
	// PriorGenerating finds the most recent Generating message for
	// (conversationID, stepID), used on resume to reattach a message the
	// prior run left mid-stream as this step's carried previous response.
	PriorGenerating(ctx context.Context, conversationID uuid.UUID, stepID string) (content string, messageID uuid.UUID, ok bool, err error)
}
