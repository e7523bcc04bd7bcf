package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// Conversation holds the schema definition for the Conversation entity.
// A Conversation is bound to (user, module, session) and drives exactly
// one compiled agent step program at a time.
type Conversation struct {
	ent.Schema
}

// Fields of the Conversation.
func (Conversation) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			StorageKey("conversation_id").
			Default(uuid.New).
			Immutable(),
		field.UUID("user_id", uuid.UUID{}).
			Immutable(),
		field.String("module_id").
			Immutable(),
		field.String("session_id").
			Immutable(),
		field.Enum("status").
			Values("open", "completed", "closed").
			Default("open"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Edges of the Conversation.
func (Conversation) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("state", ConversationState.Type).
			Unique().
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("messages", Message.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
		edge.To("conversation_slots", ConversationSlot.Type).
			Annotations(entsql.OnDelete(entsql.Cascade)),
	}
}

// Indexes of the Conversation.
func (Conversation) Indexes() []ent.Index {
	return []ent.Index{
		// At most one Open conversation per (user, module, session); enforced
		// at the service layer (close-then-create), not by a unique index,
		// because Completed/Closed rows at the same key must coexist for history.
		index.Fields("user_id", "module_id", "session_id", "created_at"),
		index.Fields("status"),
	}
}
