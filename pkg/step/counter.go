package step

import (
	"context"
	"fmt"
	"strconv"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/slot"
)

// Counter increments a numeric slot by its delta (1 when unset), treating an absent slot as 0
// (spec.md §4.3, original_source
// hikari-llm/src/execution/steps/counter.rs). Reset support is a
// SPEC_FULL.md addition (see SetSlot for unconditional overwrite; Counter
// adds relative increment/reset semantics the original didn't need since
// it only ever incremented).
type Counter struct {
	base
	slotName    string
	destination slot.Scope
	delta       int
	reset       bool
}

// NewCounter builds a Counter step.
func NewCounter(id, slotName string, destination slot.Scope, delta int, reset bool, conditions []agentspec.Condition) *Counter {
	if delta == 0 {
		delta = 1
	}
	return &Counter{base: newBase(id, conditions, false), slotName: slotName, destination: destination, delta: delta, reset: reset}
}

// Execute reads the current value (0 if absent), applies the delta (or
// resets to 0), and returns the new value as a slot write.
func (c *Counter) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	if c.reset {
		return Response{Kind: ContentStepValue, Writes: []SlotWrite{
			{Path: SlotPath{Name: c.slotName, Destination: c.destination}, Value: "0"},
		}}, nil
	}

	key := ec.KeyFor(c.destination)
	current := 0
	value, ok, err := ec.Store.GetOne(ctx, key, c.slotName)
	if err != nil {
		return Response{}, fmt.Errorf("counter %s: %w", c.id, err)
	}
	if ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			return Response{}, fmt.Errorf("counter %s: slot %q: %w", c.id, c.slotName, ErrNotANumber)
		}
		current = n
	}

	next := current + c.delta
	return Response{Kind: ContentStepValue, Writes: []SlotWrite{
		{Path: SlotPath{Name: c.slotName, Destination: c.destination}, Value: strconv.Itoa(next)},
	}}, nil
}

func (c *Counter) AddPreviousResponse(string) {}
func (c *Counter) RemovePreviousResponse()    {}
