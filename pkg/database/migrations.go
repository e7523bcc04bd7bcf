package database

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
)

// CreateGINIndexes creates full-text search GIN indexes not expressible
// through ent's schema builder. One covers conversation history (search
// across a user's prior messages), the other covers retrievable documents
// as a keyword fallback alongside pgvector's cosine-similarity search.
func CreateGINIndexes(ctx context.Context, driver *sql.Driver) error {
	db := driver.DB()

	_, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_messages_payload_gin
		ON messages USING gin(to_tsvector('english', payload))`)
	if err != nil {
		return fmt.Errorf("failed to create messages payload GIN index: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_documents_content_gin
		ON documents USING gin(to_tsvector('english', content))`)
	if err != nil {
		return fmt.Errorf("failed to create documents content GIN index: %w", err)
	}

	return nil
}
