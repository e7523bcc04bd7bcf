package vectorstore

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/ent/document"
	"github.com/codeready-toolchain/hikari/pkg/step"
	pgvector "github.com/pgvector/pgvector-go"
)

// Store implements step.Retriever over an ent.Client, following the
// pgvector cosine-distance query shape of
// _examples/MrWong99-glyphoxa/pkg/memory/postgres/semantic_index.go's
// Search method, adapted from raw pgxpool SQL onto ent's query builder
// via its Modify/OrderExpr escape hatch (ent has no native vector-distance
// ordering, so the nearest-neighbor ORDER BY is appended as raw SQL the
// way ent's own documentation recommends for unsupported expressions).
type Store struct {
	client   *ent.Client
	embedder Embedder
}

var _ step.Retriever = (*Store)(nil)

// NewStore builds a Store over an ent client and an Embedder used to
// vectorize incoming queries.
func NewStore(client *ent.Client, embedder Embedder) *Store {
	return &Store{client: client, embedder: embedder}
}

// Retrieve implements step.Retriever: embed query, then find the topK
// documents in documentSet nearest by cosine distance.
func (s *Store) Retrieve(ctx context.Context, documentSet, query string, topK int) ([]step.RetrievedDocument, error) {
	if topK <= 0 {
		topK = 4
	}

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: embed query: %w", err)
	}
	queryVec := pgvector.NewVector(embedding)

	rows, err := s.client.Document.Query().
		Where(document.DocumentSetEQ(documentSet)).
		Modify(func(sel *sql.Selector) {
			sel.OrderExpr(sql.ExprP("embedding <=> ?", queryVec))
		}).
		Limit(topK).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: search %q: %w", documentSet, err)
	}

	out := make([]step.RetrievedDocument, len(rows))
	for i, r := range rows {
		out[i] = step.RetrievedDocument{
			Content:        r.Content,
			ProvenanceName: r.ProvenanceName,
		}
		if r.ProvenanceLink != nil {
			out[i].ProvenanceLink = *r.ProvenanceLink
		}
	}
	return out, nil
}

// IndexDocument upserts one pre-embedded document into documentSet,
// grounded on semantic_index.go's IndexChunk upsert, adapted to this
// module's Document entity and content-hash change-detection fields.
func (s *Store) IndexDocument(ctx context.Context, id, documentSet, content string, embedding []float32, hash, provenanceName string, provenanceLink *string) error {
	create := s.client.Document.Create().
		SetID(id).
		SetDocumentSet(documentSet).
		SetContent(content).
		SetEmbedding(pgvector.NewVector(embedding)).
		SetHash(hash).
		SetProvenanceName(provenanceName).
		SetNillableProvenanceLink(provenanceLink)

	err := create.
		OnConflictColumns(document.FieldID).
		UpdateDocumentSet().
		UpdateContent().
		UpdateEmbedding().
		UpdateHash().
		UpdateProvenanceName().
		UpdateProvenanceLink().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("vectorstore: index document %q: %w", id, err)
	}
	return nil
}
