package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// UpdateType controls how a ConversationSummarizer's result combines
// with any existing summary slot value, mirroring original_source
// hikari-llm/src/builder/steps/summarizer.rs's UpdateType enum.
type UpdateType int

const (
	UpdateAppend UpdateType = iota
	UpdateReplace
)

// ConversationSummarizer asks the LLM to compress the conversation
// memory window into a summary slot (SPEC_FULL.md supplement: spec.md's
// Non-goals exclude only journal summarization, not in-conversation
// summarization, and original_source implements this as its own step
// kind).
type ConversationSummarizer struct {
	base
	tool       SummarizerTool
	resultSlot SlotPath
	maxWords   int
	updateType UpdateType
}

// NewConversationSummarizer builds a ConversationSummarizer step.
func NewConversationSummarizer(id string, tool SummarizerTool, resultSlot SlotPath, maxWords int, updateType UpdateType, conditions []agentspec.Condition) *ConversationSummarizer {
	return &ConversationSummarizer{base: newBase(id, conditions, false), tool: tool, resultSlot: resultSlot, maxWords: maxWords, updateType: updateType}
}

// Execute produces the summary text and, for UpdateAppend, prepends any
// existing summary so the result slot accumulates across repeated runs.
func (c *ConversationSummarizer) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	summary, err := c.tool.Summarize(ctx, ec, c.maxWords)
	if err != nil {
		return Response{}, fmt.Errorf("conversation-summarizer %s: %w", c.id, err)
	}

	value := summary
	if c.updateType == UpdateAppend {
		key := ec.KeyFor(c.resultSlot.Destination)
		existing, ok, err := ec.Store.GetOne(ctx, key, c.resultSlot.Name)
		if err != nil {
			return Response{}, fmt.Errorf("conversation-summarizer %s: read existing summary: %w", c.id, err)
		}
		if ok && existing != "" {
			value = existing + "\n" + summary
		}
	}

	return Response{Kind: ContentStepValue, Writes: []SlotWrite{{Path: c.resultSlot, Value: value}}}, nil
}

func (c *ConversationSummarizer) AddPreviousResponse(string) {}
func (c *ConversationSummarizer) RemovePreviousResponse()    {}
