package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// TTSCache holds the schema definition for the text-to-speech cache index:
// maps an xxHash64 hex digest of synthesized text to the object-store path
// of the cached audio blob (spec.md §6, original_source
// hikari-core/src/tts/cache.rs, which hashes with xxh3_64).
type TTSCache struct {
	ent.Schema
}

// Fields of the TTSCache.
func (TTSCache) Fields() []ent.Field {
	return []ent.Field{
		field.String("text_hash").
			Unique().
			Immutable().
			Comment("hex-encoded xxHash64 digest of the synthesized text"),
		field.String("path").
			Comment("Object-store path, e.g. v0/<hash>.wav"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
