package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// Extractor asks the LLM to pull a structured value out of the previous
// response into a slot (spec.md §4.3, original_source
// hikari-llm/src/execution/tools/extractor.rs's ExtractionTool usage).
type Extractor struct {
	base
	tool             ExtractionTool
	instruction      string
	resultSlot       SlotPath
	schema           []agentspec.OpenApiField
	previousResponse string
}

// NewExtractor builds an Extractor step.
func NewExtractor(id string, tool ExtractionTool, instruction string, resultSlot SlotPath, schema []agentspec.OpenApiField, conditions []agentspec.Condition) *Extractor {
	return &Extractor{base: newBase(id, conditions, false), tool: tool, instruction: instruction, resultSlot: resultSlot, schema: schema}
}

// Execute extracts the value and encodes it into the canonical slot text
// form before writing.
func (e *Extractor) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	value, err := e.tool.Extract(ctx, ec, e.instruction, e.previousResponse, e.schema)
	if err != nil {
		return Response{}, fmt.Errorf("extractor %s: %w", e.id, err)
	}
	encoded, err := template.Encode(value)
	if err != nil {
		return Response{}, fmt.Errorf("extractor %s: encode result: %w", e.id, err)
	}
	return Response{Kind: ContentStepValue, Writes: []SlotWrite{{Path: e.resultSlot, Value: encoded}}}, nil
}

// AddPreviousResponse carries the prior turn's text into the extraction
// call.
func (e *Extractor) AddPreviousResponse(text string) { e.previousResponse = text }

// RemovePreviousResponse clears carryover at the start of a fresh
// execution.
func (e *Extractor) RemovePreviousResponse() { e.previousResponse = "" }
