package step

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureGenerator struct {
	opts GenerateOptions
}

func (c *captureGenerator) Stream(_ context.Context, _ ExecCtx, opts GenerateOptions) (<-chan string, error) {
	c.opts = opts
	ch := make(chan string, 1)
	ch <- "hello"
	close(ch)
	return ch, nil
}

func TestMessageGenerator_Execute_PassesPreviousResponseAndTools(t *testing.T) {
	gen := &captureGenerator{}
	mg := NewMessageGenerator("reply", gen, false, nil, "auto", nil, nil)
	mg.AddPreviousResponse("earlier turn")

	resp, err := mg.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Equal(t, ContentMessage, resp.Kind)
	assert.Equal(t, "hello", drain(t, resp.Chunks))
	assert.Equal(t, "earlier turn", gen.opts.PreviousResponse)
	assert.Equal(t, "auto", gen.opts.ToolChoice)

	mg.RemovePreviousResponse()
	_, err = mg.Execute(context.Background(), ExecCtx{})
	require.NoError(t, err)
	assert.Empty(t, gen.opts.PreviousResponse)
}

func TestMessageGenerator_StoreTarget(t *testing.T) {
	mg := NewMessageGenerator("reply", &captureGenerator{}, false, nil, "", nil, nil)
	_, ok := mg.StoreTarget()
	assert.False(t, ok)

	target := SlotPath{Name: "last_reply"}
	mgWithStore := NewMessageGenerator("reply", &captureGenerator{}, false, nil, "", &target, nil)
	got, ok := mgWithStore.StoreTarget()
	require.True(t, ok)
	assert.Equal(t, target, got)
}
