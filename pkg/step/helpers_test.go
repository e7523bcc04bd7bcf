package step

import (
	"context"
	"testing"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"github.com/codeready-toolchain/hikari/ent"
	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// newTestExecCtx starts a disposable Postgres container, auto-migrates
// the ent schema, and wraps it in a Store + ExecCtx for a single
// conversation, mirroring pkg/slot's own test harness.
func newTestExecCtx(t *testing.T) ExecCtx {
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

	return ExecCtx{
		ConversationID: uuid.New(),
		UserID:         uuid.New(),
		ModuleID:       "onboarding",
		SessionID:      "session-1",
		Store:          slot.NewStore(client, nil),
	}
}

// drain reads every chunk off a Response's Chunks channel and joins them.
func drain(t *testing.T, ch <-chan string) string {
	t.Helper()
	var out string
	for chunk := range ch {
		out += chunk
	}
	return out
}
