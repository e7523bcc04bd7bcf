package step

import (
	"context"
	"fmt"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// SetSlot writes one or more rendered values into slots; it never
// produces a message (spec.md §4.3, original_source
// hikari-llm/src/execution/steps/set_slot.rs).
type SetSlot struct {
	base
	values []SetSlotValue
}

// SetSlotValue pairs a destination slot path with the Template that
// renders its new value.
type SetSlotValue struct {
	Name        string
	Destination slot.Scope
	Value       template.Template
}

// NewSetSlot builds a SetSlot step.
func NewSetSlot(id string, values []SetSlotValue, conditions []agentspec.Condition) *SetSlot {
	return &SetSlot{base: newBase(id, conditions, false), values: values}
}

// Execute renders every configured value and returns them as slot writes;
// the Conversation Orchestrator applies the writes to the Slot Store
// after a successful Execute (spec.md §4.5).
func (s *SetSlot) Execute(ctx context.Context, ec ExecCtx) (Response, error) {
	writes := make([]SlotWrite, 0, len(s.values))
	for _, v := range s.values {
		rendered, err := renderTemplate(ctx, ec, v.Value)
		if err != nil {
			return Response{}, fmt.Errorf("set-slot %s: render %q: %w", s.id, v.Name, err)
		}
		writes = append(writes, SlotWrite{
			Path:  SlotPath{Name: v.Name, Destination: v.Destination},
			Value: rendered,
		})
	}
	return Response{Kind: ContentStepValue, Writes: writes}, nil
}

// AddPreviousResponse is a no-op: set-slot never consumes a previous
// response (original logs an error here; we simply ignore it since the
// Conversation Orchestrator never calls this for a non-generator step).
func (s *SetSlot) AddPreviousResponse(string) {}
func (s *SetSlot) RemovePreviousResponse()    {}
