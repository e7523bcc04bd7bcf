// Package conversation implements the Conversation/ConversationState/
// Message domain (spec.md §3): durable turn-by-turn state for a running
// agent conversation, ent-backed exactly the way pkg/slot persists the
// Slot Store. It satisfies two consumer-declared ports by construction
// rather than importing them: pkg/orchestrator.ConversationStore (the
// Conversation Orchestrator's persistence dependency) and
// pkg/llmcore.MemoryProvider (the LLM Core's conversation memory window).
package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/ent/conversation"
	"github.com/codeready-toolchain/hikari/ent/conversationstate"
	"github.com/codeready-toolchain/hikari/ent/message"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/google/uuid"
)

// Store is the ent-backed implementation of orchestrator.ConversationStore
// and llmcore.MemoryProvider.
type Store struct {
	client *ent.Client
	log    *slog.Logger
}

// NewStore builds a Store over an ent client.
func NewStore(client *ent.Client, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{client: client, log: log}
}

var _ orchestrator.ConversationStore = (*Store)(nil)

// stepStatusToEnt and entToStepStatus translate between step.Status (the
// in-memory status every Step implementation reports) and the
// conversationstate.StepStatus enum ent generates from the schema.
func stepStatusToEnt(s step.Status) conversationstate.StepStatus {
	switch s {
	case step.StatusRunning:
		return conversationstate.StepStatusRunning
	case step.StatusWaitingForInput:
		return conversationstate.StepStatusWaitingForInput
	case step.StatusCompleted:
		return conversationstate.StepStatusCompleted
	case step.StatusError:
		return conversationstate.StepStatusError
	default:
		return conversationstate.StepStatusNotStarted
	}
}

func entToStepStatus(s conversationstate.StepStatus) step.Status {
	switch s {
	case conversationstate.StepStatusRunning:
		return step.StatusRunning
	case conversationstate.StepStatusWaitingForInput:
		return step.StatusWaitingForInput
	case conversationstate.StepStatusCompleted:
		return step.StatusCompleted
	case conversationstate.StepStatusError:
		return step.StatusError
	default:
		return step.StatusNotStarted
	}
}

// LoadState implements orchestrator.ConversationStore.
func (s *Store) LoadState(ctx context.Context, conversationID uuid.UUID) (orchestrator.StepState, error) {
	row, err := s.client.ConversationState.Query().
		Where(conversationstate.ConversationIDEQ(conversationID)).
		Only(ctx)
	if ent.IsNotFound(err) {
		return orchestrator.StepState{Status: step.StatusNotStarted}, nil
	}
	if err != nil {
		return orchestrator.StepState{}, fmt.Errorf("conversation: load state: %w", err)
	}
	response := ""
	if row.Value != nil {
		response = *row.Value
	}
	return orchestrator.StepState{
		Status:      entToStepStatus(row.StepStatus),
		CurrentStep: row.CurrentStep,
		Response:    response,
	}, nil
}

// SaveState implements orchestrator.ConversationStore, upserting the
// single ConversationState row per conversation.
func (s *Store) SaveState(ctx context.Context, conversationID uuid.UUID, state orchestrator.StepState) error {
	err := s.client.ConversationState.Create().
		SetConversationID(conversationID).
		SetStepStatus(stepStatusToEnt(state.Status)).
		SetCurrentStep(state.CurrentStep).
		SetNillableValue(nonEmptyPtr(state.Response)).
		OnConflictColumns(conversationstate.FieldConversationID).
		UpdateStepStatus().
		UpdateCurrentStep().
		UpdateValue().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("conversation: save state: %w", err)
	}
	return nil
}

// CompleteConversation implements orchestrator.ConversationStore.
func (s *Store) CompleteConversation(ctx context.Context, conversationID uuid.UUID) error {
	n, err := s.client.Conversation.Update().
		Where(conversation.IDEQ(conversationID)).
		SetStatus(conversation.StatusCompleted).
		SetCompletedAt(time.Now()).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("conversation: mark completed: %w", err)
	}
	if n == 0 {
		s.log.WarnContext(ctx, "complete conversation: no matching row", "conversation_id", conversationID)
	}
	return nil
}

// NextMessageOrder implements orchestrator.ConversationStore (spec.md §5:
// "order=current_count").
func (s *Store) NextMessageOrder(ctx context.Context, conversationID uuid.UUID) (int, error) {
	n, err := s.client.Message.Query().
		Where(message.ConversationIDEQ(conversationID)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("conversation: count messages: %w", err)
	}
	return n, nil
}

// StartMessage implements orchestrator.ConversationStore.
func (s *Store) StartMessage(ctx context.Context, conversationID uuid.UUID, stepID string, order int, direction orchestrator.Direction, contentType orchestrator.ContentType, content string) (uuid.UUID, error) {
	row, err := s.client.Message.Create().
		SetConversationID(conversationID).
		SetMessageOrder(order).
		SetStep(stepID).
		SetDirection(toEntDirection(direction)).
		SetContentType(toEntContentType(contentType)).
		SetStatus(message.StatusGenerating).
		SetPayload(content).
		Save(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("conversation: start message: %w", err)
	}
	return row.ID, nil
}

// UpdateMessage implements orchestrator.ConversationStore.
func (s *Store) UpdateMessage(ctx context.Context, messageID uuid.UUID, content string) error {
	err := s.client.Message.UpdateOneID(messageID).
		SetPayload(content).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("conversation: update message: %w", err)
	}
	return nil
}

// CompleteMessage implements orchestrator.ConversationStore.
func (s *Store) CompleteMessage(ctx context.Context, messageID uuid.UUID, content string) error {
	err := s.client.Message.UpdateOneID(messageID).
		SetPayload(content).
		SetStatus(message.StatusCompleted).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("conversation: complete message: %w", err)
	}
	return nil
}

// PriorGenerating implements orchestrator.ConversationStore: the newest
// still-Generating message for (conversationID, stepID), used to reattach
// a step that crashed mid-stream on resume (spec.md §4.5 resume semantics).
// At most one such row should ever exist per (conversation, step) — the
// application-level invariant the ent schema's non-unique index on
// (conversation_id, step, status) documents rather than enforces.
func (s *Store) PriorGenerating(ctx context.Context, conversationID uuid.UUID, stepID string) (string, uuid.UUID, bool, error) {
	row, err := s.client.Message.Query().
		Where(
			message.ConversationIDEQ(conversationID),
			message.StepEQ(stepID),
			message.StatusEQ(message.StatusGenerating),
		).
		Order(ent.Desc(message.FieldMessageOrder)).
		First(ctx)
	if ent.IsNotFound(err) {
		return "", uuid.Nil, false, nil
	}
	if err != nil {
		return "", uuid.Nil, false, fmt.Errorf("conversation: prior generating message: %w", err)
	}
	return row.Payload, row.ID, true, nil
}

// HistoryMessage is one row of a conversation's message log, as returned
// by ListMessages for the "get history" API surface.
type HistoryMessage struct {
	ID        uuid.UUID
	Order     int
	Step      string
	Direction orchestrator.Direction
	Status    string
	Content   string
	CreatedAt time.Time
}

// ListMessages returns every message for conversationID in order, oldest
// first — the full transcript backing the "get history" endpoint.
func (s *Store) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]HistoryMessage, error) {
	rows, err := s.client.Message.Query().
		Where(message.ConversationIDEQ(conversationID)).
		Order(ent.Asc(message.FieldMessageOrder)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversation: list messages: %w", err)
	}
	out := make([]HistoryMessage, 0, len(rows))
	for _, row := range rows {
		direction := orchestrator.DirectionSend
		if row.Direction == message.DirectionReceive {
			direction = orchestrator.DirectionReceive
		}
		out = append(out, HistoryMessage{
			ID:        row.ID,
			Order:     row.MessageOrder,
			Step:      row.Step,
			Direction: direction,
			Status:    string(row.Status),
			Content:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toEntDirection(d orchestrator.Direction) message.Direction {
	if d == orchestrator.DirectionReceive {
		return message.DirectionReceive
	}
	return message.DirectionSend
}

func toEntContentType(c orchestrator.ContentType) message.ContentType {
	switch c {
	case orchestrator.ContentTypePayload:
		return message.ContentTypePayload
	case orchestrator.ContentTypeButtons:
		return message.ContentTypeButtons
	default:
		return message.ContentTypeText
	}
}
