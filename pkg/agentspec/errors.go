package agentspec

import "errors"

var (
	ErrMissingVersion     = errors.New("agent spec missing version")
	ErrUnsupportedVersion = errors.New("unsupported agent spec version")
	ErrNoSteps            = errors.New("agent spec has no steps")
	ErrMissingStepKind    = errors.New("step missing kind")
	ErrUnknownStepKind    = errors.New("unknown step kind")
)
