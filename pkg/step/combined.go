package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"golang.org/x/sync/errgroup"
)

// Combined runs a set of sub-steps concurrently and joins once every
// branch completes or one fails (spec.md §5, original_source
// hikari-llm/src/execution/steps/combined_step.rs). Concurrency uses
// golang.org/x/sync/errgroup in place of the original's
// futures::future::try_join_all.
type Combined struct {
	id         string
	steps      []Step
	conditions []agentspec.Condition
}

// NewCombined builds a Combined step over already-constructed sub-steps.
func NewCombined(id string, steps []Step, conditions []agentspec.Condition) *Combined {
	return &Combined{id: id, steps: steps, conditions: conditions}
}

func (c *Combined) ID() string                       { return c.id }
func (c *Combined) Conditions() []agentspec.Condition { return c.conditions }

// Execute runs every sub-step concurrently; the first error cancels the
// rest via the errgroup's derived context and is returned.
func (c *Combined) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	group, gctx := errgroup.WithContext(ctx)
	responses := make([]Response, len(c.steps))

	for i, sub := range c.steps {
		i, sub := i, sub
		group.Go(func() error {
			resp, err := sub.Execute(gctx, ec)
			if err != nil {
				return fmt.Errorf("combined %s: sub-step %s: %w", c.id, sub.ID(), err)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Response{}, err
	}
	return Response{Kind: ContentCombined, Combined: responses}, nil
}

// AddPreviousResponse forwards the carried response to every sub-step.
func (c *Combined) AddPreviousResponse(text string) {
	for _, s := range c.steps {
		s.AddPreviousResponse(text)
	}
}

// RemovePreviousResponse clears carryover on every sub-step.
func (c *Combined) RemovePreviousResponse() {
	for _, s := range c.steps {
		s.RemovePreviousResponse()
	}
}

// SetStatus propagates the status to every sub-step.
func (c *Combined) SetStatus(status Status) {
	for _, s := range c.steps {
		s.SetStatus(status)
	}
}

// Finish finishes every sub-step and returns the combined step's status
// (the union's own status derives from Status(), not from a stored
// field, since it is always recomputed from its children).
func (c *Combined) Finish() Status {
	for _, s := range c.steps {
		s.Finish()
	}
	return c.Status()
}

// Status returns the most urgent status across all sub-steps, in the
// precedence order Error > NotStarted > Running > WaitingForInput >
// Completed (original_source combined_step.rs's LlmStepTrait::status).
func (c *Combined) Status() Status {
	seen := make(map[Status]bool, len(c.steps))
	for _, s := range c.steps {
		seen[s.Status()] = true
	}
	for _, candidate := range []Status{StatusError, StatusNotStarted, StatusRunning, StatusWaitingForInput} {
		if seen[candidate] {
			return candidate
		}
	}
	return StatusCompleted
}
