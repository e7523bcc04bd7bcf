package llmcore

import (
	"context"
	"testing"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/step"
	"github.com/codeready-toolchain/hikari/pkg/template"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	streamReq   CompletionRequest
	streamChunk string
	completeReq CompletionRequest
	completeFn  func(CompletionRequest) (*CompletionResponse, error)
}

func (f *fakeProvider) StreamCompletion(_ context.Context, req CompletionRequest) (<-chan Chunk, error) {
	f.streamReq = req
	ch := make(chan Chunk, 1)
	ch <- Chunk{Text: f.streamChunk}
	close(ch)
	return ch, nil
}

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	f.completeReq = req
	return f.completeFn(req)
}

type fakeMemory struct {
	messages []MemoryMessage
}

func (f *fakeMemory) RecentMessages(_ context.Context, _ uuid.UUID, _ int) ([]MemoryMessage, error) {
	return f.messages, nil
}

func TestCore_Stream_PassesToolsAndChoice(t *testing.T) {
	provider := &fakeProvider{streamChunk: "hi there"}
	core := &Core{provider: provider, systemPrompt: template.Template("sys prompt")}

	ch, err := core.Stream(context.Background(), step.ExecCtx{}, step.GenerateOptions{
		ToolChoice: "auto",
		Tools:      []agentspec.ToolConfig{{Name: "lookup", Description: "look things up"}},
	})
	require.NoError(t, err)

	var got string
	for chunk := range ch {
		got += chunk
	}
	assert.Equal(t, "hi there", got)
	assert.Equal(t, "auto", provider.streamReq.ToolChoice)
	require.Len(t, provider.streamReq.Tools, 1)
	assert.Equal(t, "lookup", provider.streamReq.Tools[0].Name)
}

func TestCore_Validate_ParsesResultFromToolCall(t *testing.T) {
	provider := &fakeProvider{completeFn: func(req CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{ToolCall: &ToolCall{Name: "validate", Arguments: `{"result":true}`}}, nil
	}}
	core := &Core{provider: provider, systemPrompt: template.Template("sys")}

	ok, err := core.Validate(context.Background(), step.ExecCtx{}, "user said yes", "yes I agree")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "required", provider.completeReq.ToolChoice)
}

func TestCore_Validate_NoToolCallFails(t *testing.T) {
	provider := &fakeProvider{completeFn: func(CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Content: "plain text, no tool call"}, nil
	}}
	core := &Core{provider: provider, systemPrompt: template.Template("sys")}

	_, err := core.Validate(context.Background(), step.ExecCtx{}, "criterion", "")
	require.ErrorIs(t, err, ErrNoToolCall)
}

func TestCore_Extract_DecodesArgumentsIntoMap(t *testing.T) {
	provider := &fakeProvider{completeFn: func(CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{ToolCall: &ToolCall{Name: "extract", Arguments: `{"city":"Berlin"}`}}, nil
	}}
	core := &Core{provider: provider, systemPrompt: template.Template("sys")}

	result, err := core.Extract(context.Background(), step.ExecCtx{}, "pull city", "I live in Berlin", []agentspec.OpenApiField{{Name: "city", Type: "string"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Berlin"}, result)
}

func TestCore_Summarize_ReturnsSummaryField(t *testing.T) {
	provider := &fakeProvider{completeFn: func(CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{ToolCall: &ToolCall{Name: "summarize", Arguments: `{"summary":"short recap"}`}}, nil
	}}
	core := &Core{provider: provider, systemPrompt: template.Template("sys")}

	summary, err := core.Summarize(context.Background(), step.ExecCtx{}, 50)
	require.NoError(t, err)
	assert.Equal(t, "short recap", summary)
}

func TestCore_Assemble_PrependsMemoryWindow(t *testing.T) {
	provider := &fakeProvider{streamChunk: "ok"}
	core := &Core{
		provider:     provider,
		systemPrompt: template.Template("sys"),
		memory:       &fakeMemory{messages: []MemoryMessage{{Role: "user", Content: "earlier question"}}},
		windowSize:   5,
	}

	_, err := core.Stream(context.Background(), step.ExecCtx{ConversationID: uuid.New()}, step.GenerateOptions{})
	require.NoError(t, err)
	require.Len(t, provider.streamReq.Messages, 2)
	assert.Equal(t, "earlier question", provider.streamReq.Messages[1].Content)
}
