// Package orchestrator implements the Conversation Orchestrator (spec.md
// §4.5): compiling a declarative agentspec.AgentSpec into an executable
// Step Program and interpreting that program against one Conversation at a
// time, suspending at WaitingForInput and resuming from persisted state.
// Grounded on original_source hikari-llm/src/execution/orchestrator.rs
// (the execution loop pseudocode spec.md §4.5 quotes) and, for the
// persist-as-you-go/per-step-timeout/retry idiom, on the teacher's
// pkg/agent/controller/iterating.go main iteration loop.
package orchestrator

import (
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/step"
)

// Program is a compiled Agent Spec: every step id built into an executable
// step.Step, plus the document order the original spec declared them in.
// Compiled once per (module, session) at startup and reused across every
// conversation that runs against it (spec.md §3: "Agent Spec ... parsed
// once, reused across conversations").
type Program struct {
	steps map[string]step.Step
	order []string
}

// Compile builds every step in spec.StepOrder via step.Build, then
// validates the resulting graph: every go-to/on-success/on-failure target
// must name a real step, and every step must be reachable from the first
// step in document order by either the implicit "next in order" edge or an
// explicit target edge. Rejecting unreachable steps here (rather than
// discovering them at run time) is spec.md §4.5's compile-time contract.
func Compile(spec *agentspec.AgentSpec, deps step.Deps) (*Program, error) {
	if len(spec.StepOrder) == 0 {
		return nil, fmt.Errorf("orchestrator: compile: %w", ErrNoSteps)
	}

	toolCatalog := make(map[string]agentspec.ToolConfig, len(spec.Tools))
	for _, t := range spec.Tools {
		toolCatalog[t.Name] = t
	}

	steps := make(map[string]step.Step, len(spec.StepOrder))
	for _, id := range spec.StepOrder {
		specStep, ok := spec.Steps[id]
		if !ok {
			return nil, fmt.Errorf("orchestrator: compile: step %q declared in order but missing from steps map", id)
		}
		built, err := step.Build(id, specStep, deps, toolCatalog, nil)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: compile step %q: %w", id, err)
		}
		steps[id] = built
	}

	prog := &Program{steps: steps, order: append([]string{}, spec.StepOrder...)}
	if err := prog.validate(spec); err != nil {
		return nil, err
	}
	return prog, nil
}

// Step returns the compiled step for id, if present.
func (p *Program) Step(id string) (step.Step, bool) {
	s, ok := p.steps[id]
	return s, ok
}

// First returns the program's entry step id.
func (p *Program) First() string {
	return p.order[0]
}

// NextInOrder returns the step id that follows id in document order, and
// false if id is the last step (there is no implicit successor).
func (p *Program) NextInOrder(id string) (string, bool) {
	for i, candidate := range p.order {
		if candidate == id {
			if i+1 < len(p.order) {
				return p.order[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// validate checks every explicit target reference names a real step, then
// walks the implicit-plus-explicit edge graph from the first step to
// confirm every declared step is reachable.
func (p *Program) validate(spec *agentspec.AgentSpec) error {
	edges := make(map[string][]string, len(p.order))
	for _, id := range p.order {
		targets, err := collectTargets(spec.Steps[id].Config)
		if err != nil {
			return fmt.Errorf("orchestrator: compile step %q: %w", id, err)
		}
		for _, t := range targets {
			if _, ok := spec.Steps[t]; !ok {
				return fmt.Errorf("orchestrator: step %q targets %q: %w", id, t, ErrDanglingTarget)
			}
		}
		edges[id] = targets
		if next, ok := p.NextInOrder(id); ok {
			edges[id] = append(edges[id], next)
		}
	}

	reached := make(map[string]bool, len(p.order))
	queue := []string{p.First()}
	reached[p.First()] = true
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range edges[id] {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}

	for _, id := range p.order {
		if !reached[id] {
			return fmt.Errorf("orchestrator: step %q: %w", id, ErrUnreachableStep)
		}
	}
	return nil
}

// collectTargets extracts every step id a step's config can explicitly
// transfer control to, recursing into a Combined step's children (their
// targets still resolve against the top-level step map; only the
// top-level id is a valid go-to/on-success/on-failure destination).
func collectTargets(cfg any) ([]string, error) {
	switch c := cfg.(type) {
	case *agentspec.GoToConfig:
		return []string{c.Target}, nil
	case *agentspec.ApiCallConfig:
		var targets []string
		if c.OnSuccess != "" {
			targets = append(targets, c.OnSuccess)
		}
		if c.OnFailure != "" {
			targets = append(targets, c.OnFailure)
		}
		return targets, nil
	case *agentspec.ValidatorConfig:
		var targets []string
		for _, goal := range c.Goals {
			if goal.OnFail != "" {
				targets = append(targets, goal.OnFail)
			}
		}
		return targets, nil
	case *agentspec.CombinedConfig:
		var targets []string
		for _, child := range c.Steps {
			childTargets, err := collectTargets(child.Config)
			if err != nil {
				return nil, err
			}
			targets = append(targets, childTargets...)
		}
		return targets, nil
	default:
		return nil, nil
	}
}
