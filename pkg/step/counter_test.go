package step

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_Execute_StartsFromZeroWhenAbsent(t *testing.T) {
	ec := newTestExecCtx(t)
	c := NewCounter("tally", "attempts", slot.ScopeConversation, 0, false, nil)

	resp, err := c.Execute(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, resp.Writes, 1)
	assert.Equal(t, "1", resp.Writes[0].Value)
}

func TestCounter_Execute_AppliesDelta(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "attempts", "4"))

	c := NewCounter("tally", "attempts", slot.ScopeConversation, 3, false, nil)
	resp, err := c.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "7", resp.Writes[0].Value)
}

func TestCounter_Execute_Reset(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "attempts", "9"))

	c := NewCounter("tally", "attempts", slot.ScopeConversation, 0, true, nil)
	resp, err := c.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "0", resp.Writes[0].Value)
}

func TestCounter_Execute_NonNumericSlotFails(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "attempts", "not-a-number"))

	c := NewCounter("tally", "attempts", slot.ScopeConversation, 1, false, nil)
	_, err := c.Execute(context.Background(), ec)
	require.ErrorIs(t, err, ErrNotANumber)
}
