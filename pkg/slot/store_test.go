package slot

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/codeready-toolchain/hikari/ent"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestClient starts a disposable Postgres container and auto-migrates
// the ent schema, mirroring the database package's own test harness.
func newTestClient(t *testing.T) *ent.Client {
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

func TestStore_PutGetDelete_ConversationScope(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)
	ctx := context.Background()
	key := ConversationKey(uuid.New())

	require.NoError(t, store.Put(ctx, key, "greeting", "hello"))

	val, ok, err := store.GetOne(ctx, key, "greeting")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "hello", val)

	_, ok, err = store.GetOne(ctx, key, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Delete(ctx, key, "greeting"))
	_, ok, err = store.GetOne(ctx, key, "greeting")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStore_Put_OverwritesOnConflict(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)
	ctx := context.Background()
	key := ConversationKey(uuid.New())

	require.NoError(t, store.Put(ctx, key, "count", "1"))
	require.NoError(t, store.Put(ctx, key, "count", "2"))

	val, ok, err := store.GetOne(ctx, key, "count")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2", val)
}

func TestStore_Get_FiltersByNames(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)
	ctx := context.Background()
	key := ConversationKey(uuid.New())

	require.NoError(t, store.Put(ctx, key, "a", "1"))
	require.NoError(t, store.Put(ctx, key, "b", "2"))
	require.NoError(t, store.Put(ctx, key, "c", "3"))

	vals, err := store.Get(ctx, key, []string{"a", "c"})
	require.NoError(t, err)
	require.Len(t, vals, 2)
	require.Equal(t, "1", vals["a"])
	require.Equal(t, "3", vals["c"])

	all, err := store.Get(ctx, key, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestStore_ScopesAreIsolated(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)
	ctx := context.Background()
	userID := uuid.New()

	sessionKey := SessionKey(userID, "onboarding", "sess-1")
	moduleKey := ModuleKey(userID, "onboarding")
	globalKey := GlobalKey(userID)

	require.NoError(t, store.Put(ctx, sessionKey, "name", "session-value"))
	require.NoError(t, store.Put(ctx, moduleKey, "name", "module-value"))
	require.NoError(t, store.Put(ctx, globalKey, "name", "global-value"))

	sv, _, err := store.GetOne(ctx, sessionKey, "name")
	require.NoError(t, err)
	require.Equal(t, "session-value", sv)

	mv, _, err := store.GetOne(ctx, moduleKey, "name")
	require.NoError(t, err)
	require.Equal(t, "module-value", mv)

	gv, _, err := store.GetOne(ctx, globalKey, "name")
	require.NoError(t, err)
	require.Equal(t, "global-value", gv)
}

func TestStore_DeleteAll_RemovesOnlyMatchingScope(t *testing.T) {
	client := newTestClient(t)
	store := NewStore(client, nil)
	ctx := context.Background()
	keyA := ConversationKey(uuid.New())
	keyB := ConversationKey(uuid.New())

	require.NoError(t, store.Put(ctx, keyA, "x", "1"))
	require.NoError(t, store.Put(ctx, keyB, "x", "1"))

	require.NoError(t, store.DeleteAll(ctx, keyA))

	_, ok, err := store.GetOne(ctx, keyA, "x")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = store.GetOne(ctx, keyB, "x")
	require.NoError(t, err)
	require.True(t, ok)
}
