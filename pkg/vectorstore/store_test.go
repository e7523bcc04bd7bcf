package vectorstore

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/codeready-toolchain/hikari/ent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const embeddingDim = 1536

// newTestClient starts a disposable pgvector-enabled Postgres container
// and auto-migrates the ent schema, following the teacher's per-package
// testcontainer helper convention (pkg/slot/store_test.go,
// pkg/step/helpers_test.go each duplicate their own rather than share
// one).
func newTestClient(t *testing.T) *ent.Client {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	drv, err := sql.Open(dialect.Postgres, connStr)
	require.NoError(t, err)

	_, err = drv.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector")
	require.NoError(t, err)

	client := ent.NewClient(ent.Driver(drv))
	require.NoError(t, client.Schema.Create(ctx))
	t.Cleanup(func() { client.Close() })

	return client
}

// vec builds an embeddingDim-length vector whose direction depends on seed
// (cosine distance ignores magnitude), so nearest-neighbor ordering is
// deterministic across test documents.
func vec(seed float32) []float32 {
	v := make([]float32, embeddingDim)
	v[0] = 1
	v[1] = seed
	return v
}

func TestStore_Retrieve_OrdersByDistanceAndFiltersBySet(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)

	require.NoError(t, store.IndexDocument(context.Background(), "doc-close", "faq", "closest match", vec(1.0), "h1", "faq.md", nil))
	require.NoError(t, store.IndexDocument(context.Background(), "doc-far", "faq", "far match", vec(10.0), "h2", "faq.md", nil))
	link := "https://example.com/policy"
	require.NoError(t, store.IndexDocument(context.Background(), "doc-other-set", "policies", "unrelated set", vec(1.0), "h3", "policy.md", &link))

	store.embedder = fakeEmbedder{vector: vec(1.0)}
	docs, err := store.Retrieve(context.Background(), "faq", "closest match", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "closest match", docs[0].Content)
	assert.Equal(t, "far match", docs[1].Content)
}

func TestStore_Retrieve_DefaultsTopKWhenZero(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, fakeEmbedder{vector: vec(1.0)})

	require.NoError(t, store.IndexDocument(context.Background(), "doc-1", "faq", "one", vec(1.0), "h1", "faq.md", nil))
	docs, err := store.Retrieve(context.Background(), "faq", "query", 0)
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestStore_IndexDocument_UpsertOverwritesOnConflict(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, fakeEmbedder{vector: vec(1.0)})

	require.NoError(t, store.IndexDocument(context.Background(), "doc-1", "faq", "version one", vec(1.0), "h1", "faq.md", nil))
	require.NoError(t, store.IndexDocument(context.Background(), "doc-1", "faq", "version two", vec(1.0), "h2", "faq.md", nil))

	docs, err := store.Retrieve(context.Background(), "faq", "query", 5)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "version two", docs[0].Content)
}

type fakeEmbedder struct {
	vector []float32
}

func (f fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return f.vector, nil
}
