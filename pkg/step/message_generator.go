package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// MessageGenerator calls the LLM Core to produce the next outbound
// message, optionally bound to tools, and optionally storing its full
// text into a slot (spec.md §4.4, original_source
// hikari-llm/src/execution/steps/message_generator.rs).
type MessageGenerator struct {
	base
	core             Generator
	tools            []agentspec.ToolConfig
	toolChoice       string
	store            *SlotPath
	previousResponse string
}

// NewMessageGenerator builds a MessageGenerator step. store is nil when
// the step's output is only streamed, not also captured into a slot.
func NewMessageGenerator(id string, core Generator, hold bool, tools []agentspec.ToolConfig, toolChoice string, store *SlotPath, conditions []agentspec.Condition) *MessageGenerator {
	return &MessageGenerator{
		base:       newBase(id, conditions, hold),
		core:       core,
		tools:      tools,
		toolChoice: toolChoice,
		store:      store,
	}
}

// Execute streams the generated message; if store is set, the
// orchestrator is responsible for buffering the full text and issuing a
// slot write once the stream completes (mirrors the original's
// LlmStepContent::Message{message, store}).
func (m *MessageGenerator) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	chunks, err := m.core.Stream(ctx, ec, GenerateOptions{
		PreviousResponse: m.previousResponse,
		Tools:            m.tools,
		ToolChoice:       m.toolChoice,
	})
	if err != nil {
		return Response{}, fmt.Errorf("message-generator %s: %w", m.id, err)
	}
	return Response{Kind: ContentMessage, Chunks: chunks}, nil
}

// AddPreviousResponse carries a prior step's text into the next call,
// used for tool-bound follow-ups (e.g. re-invoking with a validator
// result).
func (m *MessageGenerator) AddPreviousResponse(text string) { m.previousResponse = text }

// RemovePreviousResponse clears carryover at the start of a fresh
// execution.
func (m *MessageGenerator) RemovePreviousResponse() { m.previousResponse = "" }

// StoreTarget reports the slot path to capture the generated text into,
// if configured.
func (m *MessageGenerator) StoreTarget() (SlotPath, bool) {
	if m.store == nil {
		return SlotPath{}, false
	}
	return *m.store, true
}
