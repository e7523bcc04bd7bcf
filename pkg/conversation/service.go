package conversation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/ent/conversation"
	"github.com/codeready-toolchain/hikari/pkg/orchestrator"
	"github.com/google/uuid"
)

// Service owns Conversation lifecycle transitions: starting a new
// conversation at a (user, module, session) key, looking up the most
// recent one, and closing one out from under a running program. It wraps
// a Store for the row-level ent access and, optionally, the
// orchestrator.Runtime driving that Store, so that closing a conversation
// also interrupts whatever step is currently executing for it (spec.md
// §5's cancellation contract; see pkg/orchestrator's Cancel doc comment
// for why that responsibility sits here and not in the orchestrator
// itself).
type Service struct {
	store   *Store
	client  *ent.Client
	runtime *orchestrator.Runtime
	log     *slog.Logger
}

// NewService builds a Service. runtime may be nil (e.g. in tests that only
// exercise row-level lifecycle, with no step program attached).
func NewService(client *ent.Client, runtime *orchestrator.Runtime, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: NewStore(client, log), client: client, runtime: runtime, log: log}
}

// Store returns the underlying orchestrator.ConversationStore /
// llmcore.MemoryProvider implementation.
func (svc *Service) Store() *Store { return svc.store }

// Open starts a new conversation at (userID, moduleID, sessionID),
// closing any conversation already Open at that key first — spec.md §3's
// "at most one Open [conversation] per key" is an application-layer
// invariant this method enforces, not a database constraint (see the
// Conversation schema's index comment).
func (svc *Service) Open(ctx context.Context, userID uuid.UUID, moduleID, sessionID string) (*ent.Conversation, error) {
	if err := svc.closeOpenConversations(ctx, userID, moduleID, sessionID); err != nil {
		return nil, err
	}
	row, err := svc.client.Conversation.Create().
		SetUserID(userID).
		SetModuleID(moduleID).
		SetSessionID(sessionID).
		SetStatus(conversation.StatusOpen).
		Save(ctx)
	if err != nil {
		return nil, fmt.Errorf("conversation: open: %w", err)
	}
	return row, nil
}

// closeOpenConversations bulk-closes every Open conversation at the given
// key, cancelling its orchestrator run (if one is in flight) before
// flipping its status.
func (svc *Service) closeOpenConversations(ctx context.Context, userID uuid.UUID, moduleID, sessionID string) error {
	rows, err := svc.client.Conversation.Query().
		Where(
			conversation.UserIDEQ(userID),
			conversation.ModuleIDEQ(moduleID),
			conversation.SessionIDEQ(sessionID),
			conversation.StatusEQ(conversation.StatusOpen),
		).
		All(ctx)
	if err != nil {
		return fmt.Errorf("conversation: find open conversations: %w", err)
	}
	for _, row := range rows {
		if err := svc.Close(ctx, row.ID); err != nil {
			return err
		}
	}
	return nil
}

// GetLastByModuleSessionUser returns the most recently created
// conversation at the given key that is not Closed, and false if none
// exists. A Closed conversation is treated as absent by this lookup: once
// closed, it is history, not something a caller should resume against.
func (svc *Service) GetLastByModuleSessionUser(ctx context.Context, userID uuid.UUID, moduleID, sessionID string) (*ent.Conversation, bool, error) {
	row, err := svc.client.Conversation.Query().
		Where(
			conversation.UserIDEQ(userID),
			conversation.ModuleIDEQ(moduleID),
			conversation.SessionIDEQ(sessionID),
			conversation.StatusNEQ(conversation.StatusClosed),
		).
		Order(ent.Desc(conversation.FieldCreatedAt)).
		First(ctx)
	if ent.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("conversation: get last: %w", err)
	}
	return row, true, nil
}

// GetByID fetches a single conversation by id.
func (svc *Service) GetByID(ctx context.Context, conversationID uuid.UUID) (*ent.Conversation, error) {
	row, err := svc.client.Conversation.Get(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation: get by id: %w", err)
	}
	return row, nil
}

// Close transitions conversationID to Closed, first signalling any in-flight
// orchestrator run for it to stop. It does not wait for that run to exit:
// the step in flight may still persist its own final state after this call
// returns, but no later step starts (spec.md §5: "Close transitions status to
// Closed, signals loop to stop ... no rollback of partial slot writes").
// The conversation's ConversationState and Message rows are left in
// place — see DESIGN.md's Open Question decision on preserving them for
// audit rather than deleting on close.
func (svc *Service) Close(ctx context.Context, conversationID uuid.UUID) error {
	if svc.runtime != nil {
		svc.runtime.Cancel(conversationID)
	}
	n, err := svc.client.Conversation.Update().
		Where(conversation.IDEQ(conversationID), conversation.StatusEQ(conversation.StatusOpen)).
		SetStatus(conversation.StatusClosed).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("conversation: close: %w", err)
	}
	if n == 0 {
		svc.log.DebugContext(ctx, "close: conversation already not open", "conversation_id", conversationID)
	}
	return nil
}

// AppendUserMessage records an inbound message from the client as a
// completed Receive message, tagged with the step that was waiting for it
// (typically the conversation's current step, as read from
// ConversationState). The orchestrator never produces Receive messages
// itself — they only enter the log through this path, ahead of the
// caller invoking Runtime.Run to resume the program.
func (svc *Service) AppendUserMessage(ctx context.Context, conversationID uuid.UUID, stepID, content string) (uuid.UUID, error) {
	order, err := svc.store.NextMessageOrder(ctx, conversationID)
	if err != nil {
		return uuid.Nil, err
	}
	messageID, err := svc.store.StartMessage(ctx, conversationID, stepID, order, orchestrator.DirectionReceive, orchestrator.ContentTypeText, content)
	if err != nil {
		return uuid.Nil, err
	}
	if err := svc.store.CompleteMessage(ctx, messageID, content); err != nil {
		return uuid.Nil, err
	}
	return messageID, nil
}
