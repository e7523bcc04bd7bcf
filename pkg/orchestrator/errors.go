package orchestrator

import "errors"

var (
	// ErrUnreachableStep is returned by Compile when a step id in the Agent
	// Spec's step map is never reached by the implicit document-order chain
	// or by any go-to/on-success/on-failure edge from a reachable step.
	ErrUnreachableStep = errors.New("step is unreachable from the program's entry step")
	// ErrDanglingTarget is returned by Compile when a go-to target or an
	// api-call on-success/on-failure target names a step id absent from the
	// Agent Spec.
	ErrDanglingTarget = errors.New("step references a target id that does not exist")
	// ErrNoSteps is returned by Compile when the Agent Spec has no steps to
	// run (agentspec.Validate already rejects this earlier in the loader
	// path; this is a defense-in-depth check for callers that construct an
	// AgentSpec by hand).
	ErrNoSteps = errors.New("agent spec has no steps")
	// ErrConversationNotOpen reports that a conversation is not in the Open
	// status. Run does not check the conversation's status and does not
	// return it; pkg/api maps it to an HTTP status for callers that do.
	ErrConversationNotOpen = errors.New("conversation is not open")
	// ErrUnknownStep is returned when a stored current_step or a runtime
	// next-step override names an id absent from the compiled Program.
	ErrUnknownStep = errors.New("step id not found in compiled program")
	// ErrConversationClosed is returned by Run when Cancel was called for
	// this conversation, either before the loop started or between two
	// steps (spec.md §5: "Close ... signals loop to stop after current
	// step's persist point").
	ErrConversationClosed = errors.New("conversation was closed")
)
