package step

import (
	"context"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/slot"
	"github.com/google/uuid"
)

// ExecCtx carries everything a step needs to resolve slots and address
// its owning conversation, mirroring the (conversation_id, user_id,
// module_id, session_id, conn) parameter list threaded through every
// original LlmStepTrait::call implementation.
type ExecCtx struct {
	ConversationID uuid.UUID
	UserID         uuid.UUID
	ModuleID       string
	SessionID      string
	Store          *slot.Store
}

// ConversationKey is shorthand for the step's own conversation scope key.
func (c ExecCtx) ConversationKey() slot.Key { return slot.ConversationKey(c.ConversationID) }

// SessionKey is shorthand for the step's owning session scope key.
func (c ExecCtx) SessionKey() slot.Key { return slot.SessionKey(c.UserID, c.ModuleID, c.SessionID) }

// ModuleKey is shorthand for the step's owning module scope key.
func (c ExecCtx) ModuleKey() slot.Key { return slot.ModuleKey(c.UserID, c.ModuleID) }

// GlobalKey is shorthand for the step's owning user's global scope key.
func (c ExecCtx) GlobalKey() slot.Key { return slot.GlobalKey(c.UserID) }

// KeyFor resolves the scope-appropriate Key for the given destination.
func (c ExecCtx) KeyFor(dest slot.Scope) slot.Key {
	switch dest {
	case slot.ScopeSession:
		return c.SessionKey()
	case slot.ScopeModule:
		return c.ModuleKey()
	case slot.ScopeGlobal:
		return c.GlobalKey()
	default:
		return c.ConversationKey()
	}
}

// ContentKind discriminates the Response payload a step produces,
// mirroring the original's LlmStepContent enum (Message/StepValue/
// Combined).
type ContentKind int

const (
	// ContentMessage carries an outbound message as a channel of text
	// chunks, streamed to the client and TTS tee as they arrive.
	ContentMessage ContentKind = iota
	// ContentStepValue carries slot writes and/or a next-step override.
	ContentStepValue
	// ContentCombined carries the sub-responses of a Combined step.
	ContentCombined
)

// SlotWrite is one (path, value) pair a step wants persisted, using the
// canonical text encoding (spec.md §6).
type SlotWrite struct {
	Path  SlotPath
	Value string
}

// SlotPath is a local alias kept distinct from template.SlotPath to avoid
// an import cycle (pkg/template does not depend on pkg/step); build.go
// converts between the two at construction time.
type SlotPath struct {
	Name        string
	Destination slot.Scope
}

// Response is the uniform execution result every step kind returns
// (spec.md §4.3), equivalent to the original's LlmStepResponse.
type Response struct {
	Kind       ContentKind
	Chunks     <-chan string // set when Kind == ContentMessage
	Writes     []SlotWrite   // set when Kind == ContentStepValue
	NextStep   string        // set when Kind == ContentStepValue and the step picks its successor (GoTo, ApiCall, Validator); empty otherwise
	HasNext    bool
	Combined   []Response // set when Kind == ContentCombined
}

// Step is the uniform contract every step variant implements (spec.md
// §4.3), grounded on original_source
// hikari-llm/src/execution/steps/mod.rs's LlmStepTrait.
type Step interface {
	// ID returns the step's identifier within its Agent Spec.
	ID() string
	// Conditions returns the guard clauses gating execution, accumulated
	// from the step's own config plus any parent steps it was nested
	// under during compilation.
	Conditions() []agentspec.Condition
	// Execute runs the step's side effect and returns its Response.
	Execute(ctx context.Context, ec ExecCtx) (Response, error)
	// AddPreviousResponse carries a prior step's textual output into this
	// step, used by MessageGenerator/Validator/Extractor/Summarizer to
	// feed the immediately preceding assistant turn back into a tool-bound
	// follow-up call without re-querying conversation history.
	AddPreviousResponse(text string)
	// RemovePreviousResponse clears carryover state before the next
	// execution of this step (called at the start of every step run).
	RemovePreviousResponse()
	// SetStatus transitions the step's status explicitly (e.g. to Running
	// or Error).
	SetStatus(Status)
	// Finish transitions the step to its terminal status: WaitingForInput
	// if the step holds for user input, Completed otherwise.
	Finish() Status
	// Status returns the step's current status.
	Status() Status
}
