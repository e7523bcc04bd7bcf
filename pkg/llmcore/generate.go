package llmcore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/step"
)

// Stream implements step.Generator: a MessageGenerator call as a streamed
// chat completion (spec.md §4.4 step 4's "else stream chat completion"
// branch), passing along the step's declared tools and tool choice.
func (c *Core) Stream(ctx context.Context, ec step.ExecCtx, opts step.GenerateOptions) (<-chan string, error) {
	messages, err := c.assemble(ctx, ec, opts.PreviousResponse)
	if err != nil {
		return nil, err
	}

	req := CompletionRequest{
		Messages:    messages,
		Temperature: c.temperature,
		Tools:       toolDefsFromConfig(opts.Tools),
		ToolChoice:  opts.ToolChoice,
	}
	chunks, err := c.provider.StreamCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llmcore: stream: %w", err)
	}

	out := make(chan string, 32)
	go func() {
		defer close(out)
		for chunk := range chunks {
			if chunk.Text == "" {
				continue
			}
			select {
			case out <- chunk.Text:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Validate implements step.ValidationTool: a tool-bound, non-streaming
// call asking the model whether criterion holds against previousResponse
// (spec.md §4.4 step 4's tool-bound branch), grounded on original_source
// hikari-llm/src/execution/tools/validation.rs.
func (c *Core) Validate(ctx context.Context, ec step.ExecCtx, criterion, previousResponse string) (bool, error) {
	messages, err := c.assemble(ctx, ec, previousResponse)
	if err != nil {
		return false, err
	}

	req := CompletionRequest{
		Messages:    messages,
		Temperature: c.temperature,
		ToolChoice:  Required().String(),
		Tools: []ToolDefinition{{
			Name:        "validate",
			Description: fmt.Sprintf("Decide whether this criterion holds: %s", criterion),
			Parameters:  validatorSchema(),
		}},
	}
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return false, fmt.Errorf("llmcore: validate: %w", err)
	}
	if resp.ToolCall == nil {
		return false, fmt.Errorf("llmcore: validate: %w", ErrNoToolCall)
	}

	var parsed struct {
		Result bool `json:"result"`
	}
	if err := json.Unmarshal([]byte(resp.ToolCall.Arguments), &parsed); err != nil {
		return false, fmt.Errorf("llmcore: validate: decode tool arguments: %w", err)
	}
	return parsed.Result, nil
}

// Extract implements step.ExtractionTool: a tool-bound call asking the
// model to pull a value matching schema out of previousResponse, grounded
// on original_source hikari-llm/src/execution/tools/extractor.rs.
func (c *Core) Extract(ctx context.Context, ec step.ExecCtx, instruction, previousResponse string, schema []agentspec.OpenApiField) (any, error) {
	messages, err := c.assemble(ctx, ec, previousResponse)
	if err != nil {
		return nil, err
	}

	req := CompletionRequest{
		Messages:    messages,
		Temperature: c.temperature,
		ToolChoice:  Required().String(),
		Tools: []ToolDefinition{{
			Name:        "extract",
			Description: instruction,
			Parameters:  buildSchema(schema),
		}},
	}
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("llmcore: extract: %w", err)
	}
	if resp.ToolCall == nil {
		return nil, fmt.Errorf("llmcore: extract: %w", ErrNoToolCall)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(resp.ToolCall.Arguments), &parsed); err != nil {
		return nil, fmt.Errorf("llmcore: extract: decode tool arguments: %w", err)
	}
	return parsed, nil
}

// Summarize implements step.SummarizerTool, grounded on original_source
// hikari-llm/src/execution/tools/summarizer.rs's SummarizerTool, which
// asks for a fixed {"summary": string} shape bounded by maxWords.
func (c *Core) Summarize(ctx context.Context, ec step.ExecCtx, maxWords int) (string, error) {
	messages, err := c.assemble(ctx, ec, "")
	if err != nil {
		return "", err
	}

	req := CompletionRequest{
		Messages:    messages,
		Temperature: c.temperature,
		ToolChoice:  Required().String(),
		Tools: []ToolDefinition{{
			Name:        "summarize",
			Description: fmt.Sprintf("Summarize the conversation so far in at most %d words.", maxWords),
			Parameters:  summarizerSchema(),
		}},
	}
	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llmcore: summarize: %w", err)
	}
	if resp.ToolCall == nil {
		return "", fmt.Errorf("llmcore: summarize: %w", ErrNoToolCall)
	}

	var parsed struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(resp.ToolCall.Arguments), &parsed); err != nil {
		return "", fmt.Errorf("llmcore: summarize: decode tool arguments: %w", err)
	}
	return parsed.Summary, nil
}

// assemble renders the system prompt, fetches the memory window, and
// folds previousResponse into one message list (spec.md §4.4's ordering).
func (c *Core) assemble(ctx context.Context, ec step.ExecCtx, previousResponse string) ([]Message, error) {
	var memory []MemoryMessage
	if c.memory != nil && c.windowSize > 0 {
		m, err := c.memory.RecentMessages(ctx, ec.ConversationID, c.windowSize)
		if err != nil {
			return nil, fmt.Errorf("llmcore: fetch memory: %w", err)
		}
		memory = m
	}
	return assemblePrompt(ctx, ec, c.systemPrompt, memory, previousResponse)
}
