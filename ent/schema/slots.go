package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// ConversationSlot holds key/value pairs scoped to one conversation.
type ConversationSlot struct {
	ent.Schema
}

// Fields of the ConversationSlot.
func (ConversationSlot) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("conversation_id", uuid.UUID{}).Immutable(),
		field.String("slot").Immutable().Comment("Slot name"),
		field.Text("value").Comment("Canonical text-encoded slot value"),
	}
}

// Edges of the ConversationSlot.
func (ConversationSlot) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("conversation", Conversation.Type).
			Ref("conversation_slots").
			Field("conversation_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the ConversationSlot.
func (ConversationSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("conversation_id", "slot").Unique(),
	}
}

// SessionSlot holds key/value pairs scoped to (user, module, session).
type SessionSlot struct {
	ent.Schema
}

// Fields of the SessionSlot.
func (SessionSlot) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.String("module_id").Immutable(),
		field.String("session_id").Immutable(),
		field.String("slot").Immutable().Comment("Slot name"),
		field.Text("value").Comment("Canonical text-encoded slot value"),
	}
}

// Indexes of the SessionSlot.
func (SessionSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "module_id", "session_id", "slot").Unique(),
	}
}

// ModuleSlot holds key/value pairs scoped to (user, module).
type ModuleSlot struct {
	ent.Schema
}

// Fields of the ModuleSlot.
func (ModuleSlot) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.String("module_id").Immutable(),
		field.String("slot").Immutable().Comment("Slot name"),
		field.Text("value").Comment("Canonical text-encoded slot value"),
	}
}

// Indexes of the ModuleSlot.
func (ModuleSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "module_id", "slot").Unique(),
	}
}

// GlobalSlot holds key/value pairs scoped to a user, across all modules
// and sessions. Global slots persist indefinitely (spec.md §3).
type GlobalSlot struct {
	ent.Schema
}

// Fields of the GlobalSlot.
func (GlobalSlot) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("user_id", uuid.UUID{}).Immutable(),
		field.String("slot").Immutable().Comment("Slot name"),
		field.Text("value").Comment("Canonical text-encoded slot value"),
	}
}

// Indexes of the GlobalSlot.
func (GlobalSlot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id", "slot").Unique(),
	}
}
