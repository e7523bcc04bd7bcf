package llmcore

import (
	"context"
	"fmt"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"
)

// anyLLMProvider implements Provider by wrapping
// github.com/mozilla-ai/any-llm-go's OpenAI-compatible backend, adapted
// from _examples/MrWong99-glyphoxa's pkg/provider/llm/anyllm package.
// Trimmed to the openai backend only: agentspec.ModelConfig's three
// LLMService values (openai, gwdg, custom) all resolve to an
// OpenAI-compatible chat-completion endpoint distinguished solely by base
// URL, so the multi-backend factory the teacher's example wraps isn't
// needed here.
type anyLLMProvider struct {
	backend anyllmlib.Provider
	model   string
}

// newAnyLLMProvider builds a Provider targeting an OpenAI-compatible
// endpoint. baseURL is empty for the public OpenAI API, set for gwdg/
// custom backends.
func newAnyLLMProvider(model, baseURL, apiKey string) (*anyLLMProvider, error) {
	if model == "" {
		return nil, fmt.Errorf("llmcore: model must not be empty")
	}

	opts := []anyllmlib.Option{}
	if apiKey != "" {
		opts = append(opts, anyllmlib.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, anyllmlib.WithBaseURL(baseURL))
	}

	backend, err := anyllmoai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("llmcore: create openai-compatible backend: %w", err)
	}

	return &anyLLMProvider{backend: backend, model: model}, nil
}

// StreamCompletion implements Provider.
func (p *anyLLMProvider) StreamCompletion(ctx context.Context, req CompletionRequest) (<-chan Chunk, error) {
	params := p.buildParams(req)
	backendChunks, backendErrs := p.backend.CompletionStream(ctx, params)

	ch := make(chan Chunk, 32)
	go func() {
		defer close(ch)
		for chunk := range backendChunks {
			if len(chunk.Choices) == 0 {
				continue
			}
			choice := chunk.Choices[0]
			out := Chunk{Text: choice.Delta.Content, FinishReason: choice.FinishReason}
			select {
			case ch <- out:
			case <-ctx.Done():
				return
			}
		}
		if err := <-backendErrs; err != nil {
			select {
			case ch <- Chunk{FinishReason: "error", Text: err.Error()}:
			case <-ctx.Done():
			}
		}
	}()

	return ch, nil
}

// Complete implements Provider.
func (p *anyLLMProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	params := p.buildParams(req)

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("llmcore: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("llmcore: empty choices in completion response")
	}

	choice := resp.Choices[0]
	result := &CompletionResponse{Content: choice.Message.ContentString()}
	if resp.Usage != nil {
		result.Usage = Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	if len(choice.Message.ToolCalls) > 0 {
		tc := choice.Message.ToolCalls[0]
		result.ToolCall = &ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments}
	}
	return result, nil
}

// buildParams converts a CompletionRequest into the backend's own
// CompletionParams shape.
func (p *anyLLMProvider) buildParams(req CompletionRequest) anyllmlib.CompletionParams {
	messages := make([]anyllmlib.Message, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: req.SystemPrompt})
	}
	for _, m := range req.Messages {
		messages = append(messages, anyllmlib.Message{Role: m.Role, Content: m.Content})
	}

	params := anyllmlib.CompletionParams{Model: p.model, Messages: messages}
	if req.Temperature != nil {
		t := *req.Temperature
		params.Temperature = &t
	}
	// any-llm-go's CompletionParams has no tool_choice field to force a
	// call; binding exactly one tool is how Validator/Extractor/
	// Summarizer steps get a tool-bound response in practice.
	for _, t := range req.Tools {
		params.Tools = append(params.Tools, anyllmlib.Tool{
			Type: "function",
			Function: anyllmlib.Function{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return params
}
