package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/pgvector/pgvector-go"
)

// Document holds the schema definition for a retrievable document chunk
// backing VectorDBExtractor (spec.md §4.3, §6). Documents belong to a
// named set ("primary"/"secondary" per retriever step config) and carry
// a pgvector embedding for cosine-similarity search.
type Document struct {
	ent.Schema
}

// Fields of the Document.
func (Document) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("document_id").
			Unique().
			Immutable(),
		field.String("document_set").
			Comment("Logical collection name referenced by a retriever step"),
		field.Text("content").
			Comment("Raw snippet text returned to the retriever"),
		field.Other("embedding", pgvector.Vector{}).
			SchemaType(map[string]string{dialect.Postgres: "vector(1536)"}).
			Comment("Query-time cosine similarity target"),
		field.String("hash").
			Comment("Content hash for change detection"),
		field.String("hash_algorithm").
			Default("xxh64"),
		field.String("provenance_name").
			Comment("Human-readable source name"),
		field.String("provenance_link").
			Optional().
			Nillable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

// Indexes of the Document.
func (Document) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("document_set"),
		index.Fields("hash"),
	}
}
