package step

import (
	"context"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
)

// GoTo unconditionally transfers control to another step id (spec.md
// §4.3, original_source hikari-llm/src/execution/steps/go_to.rs).
type GoTo struct {
	base
	target string
}

// NewGoTo builds a GoTo step.
func NewGoTo(id, target string, conditions []agentspec.Condition) *GoTo {
	return &GoTo{base: newBase(id, conditions, false), target: target}
}

// Execute returns the target step id as a next-step override; it writes
// no slots.
func (g *GoTo) Execute(context.Context, ExecCtx) (Response, error) {
	return Response{Kind: ContentStepValue, NextStep: g.target, HasNext: true}, nil
}

func (g *GoTo) AddPreviousResponse(string) {}
func (g *GoTo) RemovePreviousResponse()    {}
