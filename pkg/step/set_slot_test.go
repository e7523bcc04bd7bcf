package step

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSlot_Execute_RendersEachValue(t *testing.T) {
	ec := ExecCtx{}
	s := NewSetSlot("init", []SetSlotValue{
		{Name: "status", Destination: slot.ScopeConversation, Value: "active"},
		{Name: "stage", Destination: slot.ScopeSession, Value: "intake"},
	}, nil)

	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	require.Len(t, resp.Writes, 2)
	assert.Equal(t, "status", resp.Writes[0].Path.Name)
	assert.Equal(t, slot.ScopeConversation, resp.Writes[0].Path.Destination)
	assert.Equal(t, "active", resp.Writes[0].Value)
	assert.Equal(t, slot.ScopeSession, resp.Writes[1].Path.Destination)
}

func TestSetSlot_Execute_RendersSlotReferences(t *testing.T) {
	ec := newTestExecCtx(t)
	require.NoError(t, ec.Store.Put(context.Background(), ec.ConversationKey(), "first_name", "Grace"))

	s := NewSetSlot("greeting", []SetSlotValue{
		{Name: "greeting", Destination: slot.ScopeConversation, Value: "hi {{first_name}}"},
	}, nil)

	resp, err := s.Execute(context.Background(), ec)
	require.NoError(t, err)
	assert.Equal(t, "hi Grace", resp.Writes[0].Value)
}
