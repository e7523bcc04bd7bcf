package llmcore

import "errors"

// ErrNoToolCall is returned when a tool-bound completion call (Validate,
// Extract, Summarize) comes back without the expected tool invocation,
// mirroring the original's WrongFunction/InvalidSyntax/Missing tool-call
// failure modes collapsed into one sentinel since this port has a single
// bound tool per call rather than a function catalog to mismatch against.
var ErrNoToolCall = errors.New("llmcore: model did not invoke the bound tool")
