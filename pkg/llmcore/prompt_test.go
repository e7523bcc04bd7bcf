package llmcore

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemblePrompt_OrdersSystemMemoryThenPreviousResponse(t *testing.T) {
	ec := step.ExecCtx{ConversationID: uuid.New()}
	memory := []MemoryMessage{
		{Role: "assistant", Content: "newest"},
		{Role: "user", Content: "oldest"},
	}

	messages, err := assemblePrompt(context.Background(), ec, template.Template("be concise"), memory, "carried over")
	require.NoError(t, err)
	require.Len(t, messages, 4)
	assert.Equal(t, Message{Role: "system", Content: "be concise"}, messages[0])
	assert.Equal(t, Message{Role: "user", Content: "oldest"}, messages[1])
	assert.Equal(t, Message{Role: "assistant", Content: "newest"}, messages[2])
	assert.Equal(t, Message{Role: "user", Content: "carried over"}, messages[3])
}

func TestAssemblePrompt_EmptyPreviousResponseOmitted(t *testing.T) {
	ec := step.ExecCtx{ConversationID: uuid.New()}
	messages, err := assemblePrompt(context.Background(), ec, template.Template("hello"), nil, "")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
