package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// ValidatorGoal is one named criterion a Validator checks against the
// previous response, grounded on original_source
// hikari-llm/src/execution/tools/validation.rs's ValidationTool, which
// accepts a set of goals and returns a boolean per goal in one call.
type ValidatorGoal struct {
	Name       string
	Criterion  string
	OnFail     string
	ResultSlot SlotPath
}

// Validator asks the LLM whether each declared goal's natural-language
// criterion holds against the previous response, writing a boolean result
// per goal and transferring control to the first failing goal's OnFail
// step, if any (spec.md §4.3, §8 scenario 3).
type Validator struct {
	base
	tool             ValidationTool
	goals            []ValidatorGoal
	previousResponse string
}

// NewValidator builds a Validator step.
func NewValidator(id string, tool ValidationTool, goals []ValidatorGoal, conditions []agentspec.Condition) *Validator {
	return &Validator{base: newBase(id, conditions, false), tool: tool, goals: goals}
}

// Execute evaluates every goal's criterion in declaration order, writing
// "true"/"false" to each goal's result slot. The first goal that fails and
// names an OnFail step wins the branch (spec.md §9's first-declared tie-break
// for goals that simultaneously map to different next steps); later failing
// goals still get their slots written but cannot override that choice.
func (v *Validator) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	writes := make([]SlotWrite, 0, len(v.goals))
	var nextStep string
	for _, goal := range v.goals {
		result, err := v.tool.Validate(ctx, ec, goal.Criterion, v.previousResponse)
		if err != nil {
			return Response{}, fmt.Errorf("validator %s: goal %s: %w", v.id, goal.Name, err)
		}
		value := "false"
		if result {
			value = "true"
		}
		writes = append(writes, SlotWrite{Path: goal.ResultSlot, Value: value})
		if !result && goal.OnFail != "" && nextStep == "" {
			nextStep = goal.OnFail
		}
	}
	return Response{Kind: ContentStepValue, Writes: writes, NextStep: nextStep, HasNext: nextStep != ""}, nil
}

// AddPreviousResponse carries the prior turn's text into the validation
// call.
func (v *Validator) AddPreviousResponse(text string) { v.previousResponse = text }

// RemovePreviousResponse clears carryover at the start of a fresh
// execution.
func (v *Validator) RemovePreviousResponse() { v.previousResponse = "" }
