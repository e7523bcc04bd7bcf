package slot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/ent/conversationslot"
	"github.com/codeready-toolchain/hikari/ent/globalslot"
	"github.com/codeready-toolchain/hikari/ent/moduleslot"
	"github.com/codeready-toolchain/hikari/ent/sessionslot"
)

// Store is the Slot Store (spec.md §4.1): a four-scope key/value table
// backing template injection, guard evaluation, and step I/O. Grounded on
// original_source hikari-db/src/llm/slot/*/{query,mutation}.rs, generalized
// from the conversation-only Rust implementation to all four scopes.
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

// Get loads the named slots for key. When names is empty, all slots in
// scope are returned. Slots with no stored row are simply absent from the
// result; callers distinguish "absent" from "empty string" by map lookup.
func (s *Store) Get(ctx context.Context, key Key, names []string) (map[string]string, error) {
	switch key.Scope {
	case ScopeConversation:
		q := s.client.ConversationSlot.Query().Where(conversationslot.ConversationIDEQ(key.ConversationID))
		if len(names) > 0 {
			q = q.Where(conversationslot.SlotIn(names...))
		}
		rows, err := q.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load conversation slots: %w", err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Slot] = r.Value
		}
		return out, nil
	case ScopeSession:
		q := s.client.SessionSlot.Query().Where(
			sessionslot.UserIDEQ(key.UserID),
			sessionslot.ModuleIDEQ(key.ModuleID),
			sessionslot.SessionIDEQ(key.SessionID),
		)
		if len(names) > 0 {
			q = q.Where(sessionslot.SlotIn(names...))
		}
		rows, err := q.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load session slots: %w", err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Slot] = r.Value
		}
		return out, nil
	case ScopeModule:
		q := s.client.ModuleSlot.Query().Where(
			moduleslot.UserIDEQ(key.UserID),
			moduleslot.ModuleIDEQ(key.ModuleID),
		)
		if len(names) > 0 {
			q = q.Where(moduleslot.SlotIn(names...))
		}
		rows, err := q.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load module slots: %w", err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Slot] = r.Value
		}
		return out, nil
	case ScopeGlobal:
		q := s.client.GlobalSlot.Query().Where(globalslot.UserIDEQ(key.UserID))
		if len(names) > 0 {
			q = q.Where(globalslot.SlotIn(names...))
		}
		rows, err := q.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("load global slots: %w", err)
		}
		out := make(map[string]string, len(rows))
		for _, r := range rows {
			out[r.Slot] = r.Value
		}
		return out, nil
	default:
		return nil, fmt.Errorf("slot: unknown scope %v", key.Scope)
	}
}

// GetOne loads a single named slot, reporting whether it was present.
func (s *Store) GetOne(ctx context.Context, key Key, name string) (string, bool, error) {
	vals, err := s.Get(ctx, key, []string{name})
	if err != nil {
		return "", false, err
	}
	v, ok := vals[name]
	return v, ok, nil
}

// Put creates or overwrites the named slot's value, matching the original
// insert_or_update_slot upsert-on-(key, name) semantics.
func (s *Store) Put(ctx context.Context, key Key, name, value string) error {
	if value == "" {
		s.log.WarnContext(ctx, "slot value is empty", "slot", name, "scope", key.Scope.String())
	}
	switch key.Scope {
	case ScopeConversation:
		err := s.client.ConversationSlot.Create().
			SetConversationID(key.ConversationID).
			SetSlot(name).
			SetValue(value).
			OnConflictColumns(conversationslot.FieldConversationID, conversationslot.FieldSlot).
			UpdateValue().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("put conversation slot %q: %w", name, err)
		}
		return nil
	case ScopeSession:
		err := s.client.SessionSlot.Create().
			SetUserID(key.UserID).
			SetModuleID(key.ModuleID).
			SetSessionID(key.SessionID).
			SetSlot(name).
			SetValue(value).
			OnConflictColumns(sessionslot.FieldUserID, sessionslot.FieldModuleID, sessionslot.FieldSessionID, sessionslot.FieldSlot).
			UpdateValue().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("put session slot %q: %w", name, err)
		}
		return nil
	case ScopeModule:
		err := s.client.ModuleSlot.Create().
			SetUserID(key.UserID).
			SetModuleID(key.ModuleID).
			SetSlot(name).
			SetValue(value).
			OnConflictColumns(moduleslot.FieldUserID, moduleslot.FieldModuleID, moduleslot.FieldSlot).
			UpdateValue().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("put module slot %q: %w", name, err)
		}
		return nil
	case ScopeGlobal:
		err := s.client.GlobalSlot.Create().
			SetUserID(key.UserID).
			SetSlot(name).
			SetValue(value).
			OnConflictColumns(globalslot.FieldUserID, globalslot.FieldSlot).
			UpdateValue().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("put global slot %q: %w", name, err)
		}
		return nil
	default:
		return fmt.Errorf("slot: unknown scope %v", key.Scope)
	}
}

// Delete removes a single named slot. Deleting an absent slot is a no-op.
func (s *Store) Delete(ctx context.Context, key Key, name string) error {
	var err error
	switch key.Scope {
	case ScopeConversation:
		_, err = s.client.ConversationSlot.Delete().Where(
			conversationslot.ConversationIDEQ(key.ConversationID),
			conversationslot.SlotEQ(name),
		).Exec(ctx)
	case ScopeSession:
		_, err = s.client.SessionSlot.Delete().Where(
			sessionslot.UserIDEQ(key.UserID),
			sessionslot.ModuleIDEQ(key.ModuleID),
			sessionslot.SessionIDEQ(key.SessionID),
			sessionslot.SlotEQ(name),
		).Exec(ctx)
	case ScopeModule:
		_, err = s.client.ModuleSlot.Delete().Where(
			moduleslot.UserIDEQ(key.UserID),
			moduleslot.ModuleIDEQ(key.ModuleID),
			moduleslot.SlotEQ(name),
		).Exec(ctx)
	case ScopeGlobal:
		_, err = s.client.GlobalSlot.Delete().Where(
			globalslot.UserIDEQ(key.UserID),
			globalslot.SlotEQ(name),
		).Exec(ctx)
	default:
		return fmt.Errorf("slot: unknown scope %v", key.Scope)
	}
	if err != nil {
		return fmt.Errorf("delete slot %q: %w", name, err)
	}
	return nil
}

// DeleteAll removes every slot in the given scope-key, e.g. when a
// conversation closes and its conversation-scoped slots no longer apply.
func (s *Store) DeleteAll(ctx context.Context, key Key) error {
	var err error
	switch key.Scope {
	case ScopeConversation:
		_, err = s.client.ConversationSlot.Delete().Where(
			conversationslot.ConversationIDEQ(key.ConversationID),
		).Exec(ctx)
	case ScopeSession:
		_, err = s.client.SessionSlot.Delete().Where(
			sessionslot.UserIDEQ(key.UserID),
			sessionslot.ModuleIDEQ(key.ModuleID),
			sessionslot.SessionIDEQ(key.SessionID),
		).Exec(ctx)
	case ScopeModule:
		_, err = s.client.ModuleSlot.Delete().Where(
			moduleslot.UserIDEQ(key.UserID),
			moduleslot.ModuleIDEQ(key.ModuleID),
		).Exec(ctx)
	case ScopeGlobal:
		_, err = s.client.GlobalSlot.Delete().Where(
			globalslot.UserIDEQ(key.UserID),
		).Exec(ctx)
	default:
		return fmt.Errorf("slot: unknown scope %v", key.Scope)
	}
	if err != nil {
		return fmt.Errorf("delete all slots: %w", err)
	}
	return nil
}
