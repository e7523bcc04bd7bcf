package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// Message holds the schema definition for the Message entity.
// Ordered, append-mostly log of everything sent/received within one
// conversation (spec.md §3).
type Message struct {
	ent.Schema
}

// Fields of the Message.
func (Message) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("conversation_id", uuid.UUID{}).
			Immutable(),
		field.Int("message_order").
			Comment("Dense, monotonically assigned per conversation").
			Immutable(),
		field.String("step").
			Comment("ID of the step that produced this message").
			Immutable(),
		field.Enum("direction").
			Values("send", "receive").
			Immutable(),
		field.Enum("status").
			Values("generating", "completed").
			Default("generating"),
		field.Enum("content_type").
			Values("text", "payload", "buttons").
			Default("text"),
		field.Text("payload").
			Comment("Raw bytes as text; interpretation depends on content_type"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Edges of the Message.
func (Message) Edges() []ent.Edge {
	return []ent.Edge{
		edge.From("conversation", Conversation.Type).
			Ref("messages").
			Field("conversation_id").
			Unique().
			Required().
			Immutable(),
	}
}

// Indexes of the Message.
func (Message) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("conversation_id", "message_order").
			Unique(),
		// Supports "at most one Generating message per (conversation, step)".
		index.Fields("conversation_id", "step", "status"),
	}
}
