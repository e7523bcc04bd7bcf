package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"github.com/google/uuid"
)

// ConversationState holds the schema definition for the ConversationState
// entity. Exactly one row per conversation; it is the serialization point
// for step execution (spec.md §5).
type ConversationState struct {
	ent.Schema
}

// Fields of the ConversationState.
func (ConversationState) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("conversation_id", uuid.UUID{}).
			Unique().
			Immutable(),
		field.Enum("step_status").
			Values("not_started", "running", "waiting_for_input", "completed", "error").
			Default("not_started"),
		field.String("current_step").
			Optional().
			Comment("Identifier into the compiled step program"),
		field.Text("value").
			Optional().
			Nillable().
			Comment("Opaque JSON carrying the pending response string"),
		field.Time("last_interaction_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// Edges of the ConversationState.
func (ConversationState) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("conversation", Conversation.Type).
			Ref("state").
			Field("conversation_id").
			Unique().
			Required().
			Immutable(),
	}
}
