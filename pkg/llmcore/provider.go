// Package llmcore implements the LLM Core (spec.md §4.4): prompt assembly,
// the chat-completion provider call, and the tool-bound Validator/
// Extractor/Summarizer calls MessageGenerator, Validator, Extractor, and
// ConversationSummarizer depend on. Grounded on original_source
// hikari-llm/src/execution/steps/message_generator.rs's LlmCore::stream
// call signature (the core's own implementation is not present in the
// retrieval pack, only its call sites) and on
// _examples/MrWong99-glyphoxa's pkg/provider/llm Provider abstraction,
// whose anyllm.go wraps github.com/mozilla-ai/any-llm-go the same way
// this package does.
package llmcore

import "context"

// Message is one turn in a chat-completion request.
type Message struct {
	Role    string // "system" | "user" | "assistant" | "tool"
	Content string
}

// Usage reports token accounting for a single completion call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// ToolCall is a single function invocation the model requested.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // JSON-encoded
}

// CompletionRequest carries everything needed to produce one response.
// Tools is empty for a plain MessageGenerator call, holds the step's
// declared tool catalog for a tool-eligible MessageGenerator call, or
// holds exactly the one tool a Validator/Extractor/Summarizer call binds.
type CompletionRequest struct {
	Messages     []Message
	SystemPrompt string
	Temperature  *float64
	Tools        []ToolDefinition
	ToolChoice   string // "", "auto", "required", or a tool name
}

// ToolDefinition describes one callable tool offered to the model.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
}

// Chunk is one increment of a streaming completion.
type Chunk struct {
	Text         string
	FinishReason string // "", "stop", "length", "tool_calls", "error"
}

// CompletionResponse is the full result of a non-streaming call.
type CompletionResponse struct {
	Content  string
	ToolCall *ToolCall // set when the model invoked the bound tool
	Usage    Usage
}

// Provider is the chat-completion backend abstraction, trimmed to what
// the LLM Core needs from the wider llm.Provider interface the pack's
// glyphoxa example defines.
type Provider interface {
	// StreamCompletion is used for MessageGenerator calls, with whatever
	// tools the step declares (none by default).
	StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan Chunk, error)
	// Complete is used for tool-bound Validator/Extractor/Summarizer calls.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}
