package step

import "github.com/codeready-toolchain/hikari/pkg/agentspec"

// base holds the id/conditions/status bookkeeping every step variant in
// the original carries as repeated struct fields (id, conditions,
// status). Embedding it keeps each variant's own file focused on its
// Execute logic.
type base struct {
	id         string
	conditions []agentspec.Condition
	status     Status
	hold       bool
}

func newBase(id string, conditions []agentspec.Condition, hold bool) base {
	return base{id: id, conditions: conditions, status: StatusNotStarted, hold: hold}
}

func (b *base) ID() string                          { return b.id }
func (b *base) Conditions() []agentspec.Condition    { return b.conditions }
func (b *base) SetStatus(s Status)                   { b.status = s }
func (b *base) Status() Status                       { return b.status }

// Finish transitions to WaitingForInput when the step holds for user
// input, Completed otherwise (spec.md §4.3; original TextMessage/
// MessageGenerator::finish).
func (b *base) Finish() Status {
	if b.hold {
		b.status = StatusWaitingForInput
	} else {
		b.status = StatusCompleted
	}
	return b.status
}
